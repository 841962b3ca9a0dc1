package sessiondata

import "github.com/perfpulse/pulse/pkg/models"

// NormalizePage derives a SessionsPage from a raw API response.
//
// NextPage is currentPage+1 while currentPage < ceil(total/pageSize).
// When total or pageSize are unreliable (zero), a fallback applies: a
// page returned exactly full is assumed to have a successor. The
// fallback can cost one empty fetch when the final page happens to be
// exactly full; the server contract does not distinguish that case.
func NormalizePage(resp models.SessionsAPIResponse, fallbackPageSize int) models.SessionsPage {
	sessions := resp.Sessions
	if sessions == nil {
		sessions = []models.Session{}
	}

	currentPage := resp.Page
	if currentPage == 0 {
		currentPage = 1
	}
	pageSize := resp.PageSize
	if pageSize == 0 {
		pageSize = fallbackPageSize
	}

	total := resp.Total
	if total == 0 {
		total = len(sessions)
	}

	var nextPage *int
	if pageSize > 0 {
		totalPages := (total + pageSize - 1) / pageSize
		if currentPage < totalPages {
			n := currentPage + 1
			nextPage = &n
		}
	}
	if nextPage == nil && pageSize > 0 && len(sessions) == pageSize {
		n := currentPage + 1
		nextPage = &n
	}

	return models.SessionsPage{Sessions: sessions, NextPage: nextPage}
}
