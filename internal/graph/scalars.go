package graph

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Date is the Date scalar. It serializes to epoch milliseconds.
type Date struct {
	time.Time
}

func (Date) ImplementsGraphQLType(name string) bool {
	return name == "Date"
}

func (d *Date) UnmarshalGraphQL(input any) error {
	switch v := input.(type) {
	case time.Time:
		d.Time = v
	case string:
		return d.parseString(v)
	case int32:
		d.Time = time.UnixMilli(int64(v))
	case int64:
		d.Time = time.UnixMilli(v)
	case int:
		d.Time = time.UnixMilli(int64(v))
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid Date %v", v)
		}
		d.Time = time.UnixMilli(int64(v))
	default:
		return fmt.Errorf("wrong type for Date: %T", input)
	}
	return nil
}

func (d *Date) parseString(s string) error {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		d.Time = time.UnixMilli(ms)
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid Date %q", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UnixMilli())
}
