package main

// HTTPResponse wraps every payload the API returns.
type HTTPResponse struct {
	Status int         `json:"status"`
	Path   string      `json:"path"`
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}
