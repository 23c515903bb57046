package models

import "time"

// ResponseVersion is the envelope version of successful responses.
const ResponseVersion = 2

// ResponseModel Base response structure that can be reused
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime returns the current time in Unix milliseconds.
func ResponseCurrentTime() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// UnixMillis converts t to Unix milliseconds, keeping the zero time as 0.
func UnixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano() / int64(time.Millisecond)
}

func NewResponse(code int, data interface{}, text string) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(),
		Data:        data,
		Text:        text,
		Version:     ResponseVersion,
	}
}

func NewOKResponse(data interface{}) ResponseModel {
	return NewResponse(200, data, "OK")
}

// NewEntryResponse wraps a single object as {"entry": ...}.
func NewEntryResponse(entry interface{}) ResponseModel {
	return NewOKResponse(map[string]interface{}{
		"entry": entry,
	})
}

// NewListResponse wraps a series as {"list": ..., "limitExceeded": ...}.
func NewListResponse(list interface{}, limitExceeded bool) ResponseModel {
	return NewOKResponse(map[string]interface{}{
		"list":          list,
		"limitExceeded": limitExceeded,
	})
}
