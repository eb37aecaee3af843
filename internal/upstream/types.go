package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Int is a lenient integer: the service sends counts as numbers or strings.
// Valid is false when the field was absent, null or unparseable.
type Int struct {
	Value int
	Valid bool
}

func (i *Int) UnmarshalJSON(b []byte) error {
	*i = Int{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		i.Value, i.Valid = ParseLeadingInt(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		// Anything that isn't a number or a string just counts as absent.
		return nil
	}
	i.Value, i.Valid = int(f), true
	return nil
}

func (i Int) MarshalJSON() ([]byte, error) {
	if !i.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(i.Value)), nil
}

// Text is a lenient string: ids arrive as strings or numbers.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("text: %w", err)
		}
		*t = Text(n.String())
	}
	return nil
}

// ParseLeadingInt reads an optionally signed run of leading digits, ignoring
// surrounding whitespace and any trailing text ("12 pcs" -> 12).
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// QuotaRecord is one element of the quota endpoint's data list.
type QuotaRecord struct {
	RemainTotal    Int    `json:"remainTotal"`
	RemainTotalStr string `json:"remainTotalStr"`
}

// Remaining picks the numeric field when it is positive, else the parsed
// string field, else 0. Never negative.
func (q QuotaRecord) Remaining() int {
	v := 0
	if q.RemainTotal.Valid && q.RemainTotal.Value > 0 {
		v = q.RemainTotal.Value
	} else if n, ok := ParseLeadingInt(q.RemainTotalStr); ok {
		v = n
	}
	if v < 0 {
		return 0
	}
	return v
}

// Record is one row of the send list.
type Record struct {
	ID          Text   `json:"id"`
	CreateTime  Text   `json:"createTime"`
	CouponCount Int    `json:"couponCount"`
}

// Count returns the coupon count, 0 when missing.
func (r Record) Count() int {
	if !r.CouponCount.Valid || r.CouponCount.Value < 0 {
		return 0
	}
	return r.CouponCount.Value
}

// ListPage is one page of the send list.
type ListPage struct {
	PageIndex  int      `json:"pageIndex"`
	TotalPages int      `json:"totalPage"`
	TotalSize  int      `json:"totalSize"`
	PageSize   int      `json:"pageSize"`
	Records    []Record `json:"records"`
}

// Empty reports whether the page has nothing to show.
func (p *ListPage) Empty() bool {
	return p == nil || len(p.Records) == 0
}

// sendListBody is the send-list payload: pagination sits beside data.
type sendListBody struct {
	Data      []Record `json:"data"`
	PageIndex Int      `json:"pageIndex"`
	TotalPage Int      `json:"totalPage"`
	TotalSize Int      `json:"totalSize"`
}
