package models

import "time"

const (
	PointSourceInput = "input"
	PointSourceCSV   = "csv"
)

// Point is a classified coordinate in the shared in-memory sequence.
// Points are immutable once appended and are lost on restart.
type Point struct {
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Source    string    `json:"source"`
	Inside    bool      `json:"inside"`
	CreatedAt time.Time `json:"created_at"`
}

// CSVSummary reports the outcome of a CSV ingestion run.
type CSVSummary struct {
	Total   int `json:"total"`
	Added   int `json:"added"`
	Outside int `json:"outside"`
}
