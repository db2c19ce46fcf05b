package models

import "time"

// Hotel represents a listing owned by a user.
type Hotel struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	City          string    `json:"city"`
	Country       string    `json:"country"`
	Description   string    `json:"description"`
	Type          string    `json:"type"` // e.g. "Budget", "Boutique", "Resort"
	AdultCount    int       `json:"adultCount"`
	ChildCount    int       `json:"childCount"`
	Facilities    []string  `json:"facilities"`
	PricePerNight float64   `json:"pricePerNight"`
	StarRating    int       `json:"starRating"`
	ImageURLs     []string  `json:"imageUrls"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// HotelSearchResult is a page of search hits plus pagination metadata.
type HotelSearchResult struct {
	Data       []Hotel        `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// PaginationInfo describes the page window of a search result.
type PaginationInfo struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}
