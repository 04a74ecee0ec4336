package model

type ArticleCategory string

const (
	ArticleInstruction ArticleCategory = "instruction"
	ArticleRegulation  ArticleCategory = "regulation"
	ArticleContact     ArticleCategory = "contact"
	ArticleNote        ArticleCategory = "note"
)

// InfoArticle is a knowledge base entry; public ones are shown on the login screen
type InfoArticle struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	Category   ArticleCategory `json:"category"`
	IsPublic   bool            `json:"isPublic"`
	AuthorName string          `json:"authorName,omitempty"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
}

type ReminderCategory string

const (
	ReminderTimesheet ReminderCategory = "timesheet"
	ReminderCriteria  ReminderCategory = "criteria"
	ReminderReport    ReminderCategory = "report"
	ReminderOther     ReminderCategory = "other"
)

// Reminder is a reporting deadline tracked on the dashboard
type Reminder struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Notes       string           `json:"notes,omitempty"`
	Category    ReminderCategory `json:"category"`
	Deadline    string           `json:"deadline"` // YYYY-MM-DD
	IsCompleted bool             `json:"isCompleted"`
	CreatedBy   string           `json:"createdBy,omitempty"`
	CreatedAt   string           `json:"createdAt"`
}

// GuestGuide is the artist-facing venue guide served on a public link
type GuestGuide struct {
	ID                   string `json:"id"`
	Title                string `json:"title"`
	Venue                string `json:"venue"`
	WelcomeText          string `json:"welcomeText"`
	DressingRooms        string `json:"dressingRooms"` // comma separated
	VenueTechSpecs       string `json:"venueTechSpecs"`
	YandexMapsURL        string `json:"yandexMapsUrl"`
	WifiSSID             string `json:"wifiSsid"`
	WifiPass             string `json:"wifiPass"`
	EntrancePhotoURL     string `json:"entrancePhotoUrl"`
	StagePlanURL         string `json:"stagePlanUrl"`
	TechContactName      string `json:"techContactName"`
	TechContactPhone     string `json:"techContactPhone"`
	SecurityContactName  string `json:"securityContactName"`
	SecurityContactPhone string `json:"securityContactPhone"`
	CateringInfo         string `json:"cateringInfo"`
	LoadingInfo          string `json:"loadingInfo"`
	ShowParkingReminder  bool   `json:"showParkingReminder"`
	ShowRiderReminder    bool   `json:"showRiderReminder"`
	IsActive             bool   `json:"isActive"`
	UpdatedAt            string `json:"updatedAt"`
}

// NotificationConfig controls the reminder digest job
type NotificationConfig struct {
	Enabled         bool   `json:"enabled"`
	DigestSchedule  string `json:"digestSchedule"` // standard 5-field cron expression
	RemindDaysAhead int    `json:"remindDaysAhead"`
}
