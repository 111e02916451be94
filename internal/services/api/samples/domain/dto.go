// Package domain holds the samples contract
package domain

import "encoding/json"

// Sample is one entry of the samples file, passed through untouched
type Sample = json.RawMessage
