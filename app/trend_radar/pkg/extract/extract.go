// Package extract 从模型的自由文本回复中取出 JSON。
//
// 模型经常把 JSON 包在 ```json ... ``` 代码块里，前后还夹着解释文字，
// 也可能直接返回裸 JSON。这里先找代码块，找不到再把整段文本当作 JSON 解析。
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyResponse 回复为空或只有空白
	ErrEmptyResponse = errors.New("extract: empty response")
	// ErrMalformedJSON 回复中的 JSON 无法解析
	ErrMalformedJSON = errors.New("extract: malformed json")
	// errNullPayload JSON 为字面量 null，视为没有数据
	errNullPayload = errors.New("payload is null")
)

// fencePattern 匹配第一个代码块，语言标记 json 可选
var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ParseError 记录解析失败的片段
type ParseError struct {
	Payload string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedJSON, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedJSON, e.Err}
}

// Payload 返回待解析的 JSON 文本，text 为空时 ok 为 false
func Payload(text string) (payload string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	if m := fencePattern.FindStringSubmatch(text); m != nil && m[1] != "" {
		return m[1], true
	}
	return strings.TrimSpace(text), true
}

// JSON 将回复中的 JSON 解码到 v
func JSON(text string, v any) error {
	payload, ok := Payload(text)
	if !ok {
		return ErrEmptyResponse
	}
	if payload == "null" {
		return &ParseError{Payload: payload, Err: errNullPayload}
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return &ParseError{Payload: payload, Err: err}
	}
	return nil
}
