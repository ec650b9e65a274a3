package model

type SystemStats struct {
	TotalUsers     int `db:"total_users" json:"totalUsers"`
	UserCount      int `db:"user_count" json:"userCount"`
	AdminCount     int `db:"admin_count" json:"adminCount"`
	RecentSignups  int `db:"recent_signups" json:"recentSignups"`
	TotalGoals     int `db:"total_goals" json:"totalGoals"`
	ActiveGoals    int `db:"active_goals" json:"activeGoals"`
	CompletedGoals int `db:"completed_goals" json:"completedGoals"`
	ArchivedGoals  int `db:"archived_goals" json:"archivedGoals"`
	TotalCheckIns  int `db:"total_checkins" json:"totalCheckIns"`
}

// Page describes a paginated listing.
type Page struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

func NewPage(total, page, limit int) Page {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Page{Total: total, Page: page, Pages: pages}
}
