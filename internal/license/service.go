package license

import (
	"time"

	"github.com/rtodev/sim-admin/internal/models"
)

const dateLayout = "2006-01-02"

// EffectiveStatus derives the displayed status: an active license whose
// expiry date has passed reads as expired without a write-back.
func EffectiveStatus(l *models.License, now time.Time) string {
	if l.Status == models.LicenseStatusActive && !now.Before(time.Time(l.ExpiresOn)) {
		return models.LicenseStatusExpired
	}
	return l.Status
}

func ValidStatus(status string) bool {
	switch status {
	case models.LicenseStatusActive, models.LicenseStatusExpired, models.LicenseStatusRevoked:
		return true
	}
	return false
}

// Response is the wire shape of a license record; dates are formatted
// as plain YYYY-MM-DD strings.
type Response struct {
	ID         uint   `json:"id"`
	Number     string `json:"number"`
	HolderID   uint   `json:"holder_id"`
	HolderName string `json:"holder_name,omitempty"`
	Class      string `json:"class"`
	IssuedOn   string `json:"issued_on"`
	ExpiresOn  string `json:"expires_on"`
	Status     string `json:"status"`
}

func ToResponse(l *models.License, now time.Time) Response {
	resp := Response{
		ID:        l.ID,
		Number:    l.Number,
		HolderID:  l.HolderID,
		Class:     l.Class,
		IssuedOn:  time.Time(l.IssuedOn).Format(dateLayout),
		ExpiresOn: time.Time(l.ExpiresOn).Format(dateLayout),
		Status:    EffectiveStatus(l, now),
	}
	if l.Holder != nil {
		resp.HolderName = l.Holder.FullName
	}
	return resp
}

func ToResponseList(list []models.License, now time.Time) []Response {
	out := make([]Response, 0, len(list))
	for i := range list {
		out = append(out, ToResponse(&list[i], now))
	}
	return out
}
