package model

// Problem is the JSON body returned for failed webhook deliveries
type Problem struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}
