// Package domain holds the denylist transport shapes and ports
package domain

// ListResponse is the active denylist in match order
type ListResponse struct {
	Terms []string `json:"terms" example:"shut up,idiot"`
	Count int      `json:"count" example:"2"`
}

// ReplaceResponse acknowledges a replacement
type ReplaceResponse struct {
	Success bool `json:"success" example:"true"`
	Count   int  `json:"count" example:"2"`
}
