package models

// Response is the envelope every endpoint writes, success or failure
type Response struct {
	Success    bool                   `json:"success"`
	Data       interface{}            `json:"data,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Pagination *PaginationInfo        `json:"pagination,omitempty"`
	Links      *Links                 `json:"_links,omitempty"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// Links are navigation links for a paginated list
type Links struct {
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

// DeleteConfirmation is returned by delete endpoints
type DeleteConfirmation struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// OK builds a success envelope
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// OKWithMessage builds a success envelope carrying a message
func OKWithMessage(data interface{}, message string) Response {
	return Response{Success: true, Data: data, Message: message}
}
