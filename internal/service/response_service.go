package service

// LogFilter narrows a log listing.
type LogFilter struct {
	Contains string // case-insensitive substring; empty matches all
	Limit    int    // newest N entries; 0 means no limit
}
