package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category is the closed set of service categories.
type Category string

const (
	CategoryCleaning   Category = "Cleaning"
	CategoryPlumbing   Category = "Plumbing"
	CategoryElectrical Category = "Electrical"
	CategoryGardening  Category = "Gardening"
	CategoryPainting   Category = "Painting"
	CategoryMoving     Category = "Moving"
	CategoryOther      Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryCleaning,
	CategoryPlumbing,
	CategoryElectrical,
	CategoryGardening,
	CategoryPainting,
	CategoryMoving,
	CategoryOther,
}

func IsValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Service is a bookable offering owned by a provider.
type Service struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	Category     Category           `bson:"category" json:"category"`
	ProviderID   string             `bson:"providerId" json:"providerId"`
	ProviderName string             `bson:"providerName,omitempty" json:"providerName,omitempty"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	Rating       float64            `bson:"rating" json:"rating"`
	ReviewCount  int                `bson:"reviewCount" json:"reviewCount"`
	BookingCount int                `bson:"bookingCount" json:"bookingCount"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CreateServiceRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=120"`
	Description string  `json:"description" binding:"required,max=2000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required,category"`
}

type UpdateServiceRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=3,max=120"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Category    *string  `json:"category" binding:"omitempty,category"`
}

type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ServiceFilter narrows a catalog listing.
type ServiceFilter struct {
	Category    string
	Search      string
	ProviderID  string
	IncludeIdle bool
	Page        int
	Limit       int
}

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasMore bool  `json:"hasMore"`
}

// NewPagination derives page counts from a total.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		HasMore: page < pages,
	}
}

type ListMeta struct {
	QueryTime string `json:"queryTime"`
	Count     int    `json:"count"`
}

type ServiceList struct {
	Services   []Service  `json:"services"`
	Pagination Pagination `json:"pagination"`
	Meta       ListMeta   `json:"meta"`
}

// SortedUniqueCategories returns the distinct values of in, sorted.
func SortedUniqueCategories(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, c := range in {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
