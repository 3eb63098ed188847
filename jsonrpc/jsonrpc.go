package jsonrpc

import (
	"encoding/json"
	"fmt"
)

const Version = "2.0"

type Request struct {
	Id      uint64        `json:"id"`
	Version string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type Response struct {
	Id      uint64          `json:"id"`
	Version string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

// Error is the error object of a JSON-RPC 2.0 response.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// NewRequest builds a request, nil params are sent as an empty array.
func NewRequest(id uint64, method string, params ...interface{}) Request {
	if params == nil {
		params = []interface{}{}
	}
	return Request{
		Id:      id,
		Version: Version,
		Method:  method,
		Params:  params,
	}
}

// IsNull reports whether the response carries a null or missing result.
func (r *Response) IsNull() bool {
	return len(r.Result) == 0 || string(r.Result) == "null"
}

func UnmarshalResponse(b []byte) (Response, error) {
	var resp Response
	err := json.Unmarshal(b, &resp)
	return resp, err
}

func MarshalRequest(r Request) ([]byte, error) {
	return json.Marshal(r)
}
