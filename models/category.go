package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CategoryInfo is the display metadata stored in the categories collection.
type CategoryInfo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        Category           `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Icon        string             `bson:"icon" json:"icon"`
	SortOrder   int                `bson:"sortOrder" json:"sortOrder"`
}

// DefaultCategoryInfo seeds the categories collection.
func DefaultCategoryInfo() []CategoryInfo {
	icons := map[Category]string{
		CategoryCleaning:   "broom",
		CategoryPlumbing:   "construct",
		CategoryElectrical: "flash",
		CategoryGardening:  "leaf",
		CategoryPainting:   "brush",
		CategoryMoving:     "cube",
		CategoryOther:      "ellipsis",
	}
	out := make([]CategoryInfo, 0, len(Categories))
	for i, c := range Categories {
		out = append(out, CategoryInfo{
			Name:      c,
			Icon:      icons[c],
			SortOrder: i,
		})
	}
	return out
}
