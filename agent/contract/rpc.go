package contract

import "fmt"

const JSONRPCVersion = "2.0"

const (
	CodeMethodNotFound = -32601
	CodeInternalError  = -32603
)

const (
	MethodToolsList     = "tools/list"
	MethodToolsCall     = "tools/call"
	MethodResourcesList = "resources/list"
	MethodResourcesRead = "resources/read"
)

type RPCRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      any            `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params,omitempty"`
}

type RPCResponse struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func NewToolCallRequest(id any, name string, args map[string]any) RPCRequest {
	if args == nil {
		args = map[string]any{}
	}
	return RPCRequest{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  MethodToolsCall,
		Params: map[string]any{
			"name":      name,
			"arguments": args,
		},
	}
}

func ResultResponse(id any, result any) RPCResponse {
	return RPCResponse{JSONRPC: JSONRPCVersion, ID: id, Result: result}
}

func ErrorResponse(id any, code int, message string) RPCResponse {
	return RPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}

const ContentTypeText = "text"

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolCallResult is the uniform payload of a successful tools/call.
type ToolCallResult struct {
	Content []ContentBlock `json:"content"`
}

func TextResult(text string) ToolCallResult {
	return ToolCallResult{Content: []ContentBlock{{Type: ContentTypeText, Text: text}}}
}

// FirstText returns the first text block, or "" when there is none.
func (r ToolCallResult) FirstText() string {
	for _, block := range r.Content {
		if block.Type == ContentTypeText {
			return block.Text
		}
	}
	return ""
}

type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

type ToolListResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

type ResourceListResult struct {
	Resources []ResourceDescriptor `json:"resources"`
}

type ResourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

type ResourceReadResult struct {
	Contents []ResourceContent `json:"contents"`
}
