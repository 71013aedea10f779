package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RawResponse is the envelope returned by flickr.photos.search and flickr.photos.getRecent.
// Photos is nil when the call failed, in which case Code and Message may describe why.
type RawResponse struct {
	Photos  *RawPage `json:"photos"`
	Stat    string   `json:"stat"` // Advisory only, it has been seen to disagree with Photos
	Code    *int     `json:"code,omitempty"`
	Message string   `json:"message,omitempty"`
}

// RawPage is the page-of-items payload.
type RawPage struct {
	Page    int        `json:"page"`
	Pages   int        `json:"pages"`
	PerPage int        `json:"perpage"`
	Total   FlexString `json:"total"`
	Photo   []RawItem  `json:"photo"`
}

// RawItem is a photo as sent by the service. Only ID, Title and the two URLs are projected.
type RawItem struct {
	ID        string  `json:"id"`
	Owner     string  `json:"owner,omitempty"`
	Secret    string  `json:"secret,omitempty"`
	Server    string  `json:"server,omitempty"`
	Farm      int     `json:"farm,omitempty"`
	Title     string  `json:"title"`
	IsPublic  int     `json:"ispublic"`
	IsFriend  int     `json:"isfriend"`
	IsFamily  int     `json:"isfamily"`
	URLThumb  *string `json:"url_q,omitempty"`
	URLMedium *string `json:"url_m,omitempty"`
}

// FlexString decodes a JSON string or number and keeps its textual form.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("total is neither a string nor a number: %w", err)
	}
	*f = FlexString(canonicalNumber(n))
	return nil
}

// MarshalJSON keeps numeric totals numeric on the way back out.
func (f FlexString) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(f), 10, 64); err == nil {
		return []byte(f), nil
	}
	return json.Marshal(string(f))
}

// canonicalNumber renders integral floats like 300.0 as "300".
func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if fl, err := n.Float64(); err == nil && fl == float64(int64(fl)) {
		return strconv.FormatInt(int64(fl), 10)
	}
	return n.String()
}
