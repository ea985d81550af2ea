package photo

import (
	"time"

	photoDatamodel "github.com/wirabuild/construction-management/internal/core/datamodel/photo"
)

type Photo struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"company_id"`
	ProjectID      string    `json:"project_id"`
	UploaderUserID string    `json:"uploader_user_id"`
	URL            string    `json:"url"`
	Caption        string    `json:"caption,omitempty"`
	ContentType    string    `json:"content_type"`
	Size           int64     `json:"size"`
	TakenAt        time.Time `json:"taken_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// MonthGroup is one bucket of the grouped photo listing, keyed YYYY-MM.
type MonthGroup struct {
	Month  string   `json:"month"`
	Photos []*Photo `json:"photos"`
}

func FromDataModel(record *photoDatamodel.Photo) *Photo {
	return &Photo{
		ID:             record.ID,
		CompanyID:      record.CompanyID,
		ProjectID:      record.ProjectID,
		UploaderUserID: record.UploaderUserID,
		URL:            record.URL,
		Caption:        record.Caption,
		ContentType:    record.ContentType,
		Size:           record.Size,
		TakenAt:        record.TakenAt,
		CreatedAt:      record.CreatedAt,
	}
}

// GroupByMonth buckets photos by the month they were taken, newest bucket
// first. Input is expected ordered newest first; order within a bucket is
// preserved.
func GroupByMonth(photos []*Photo) []*MonthGroup {
	var groups []*MonthGroup
	index := make(map[string]*MonthGroup)

	for _, p := range photos {
		key := p.TakenAt.Format("2006-01")
		group, ok := index[key]
		if !ok {
			group = &MonthGroup{Month: key}
			index[key] = group
			groups = append(groups, group)
		}
		group.Photos = append(group.Photos, p)
	}
	return groups
}
