package domain

// PersonRef is the abbreviated customer/interpreter reference embedded in job
// records by the booking API.
type PersonRef struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Language as returned by the languages endpoint.
type Language struct {
	ID           int    `json:"id"`
	LanguageName string `json:"language_name"`
}

// Appointment is an in-person interpreting job. Actual start/duration are
// filled in by the interpreter after the appointment so customers can be
// billed correctly.
type Appointment struct {
	ID               int       `json:"id"`
	Location         string    `json:"location"`
	PlannedStartTime string    `json:"planned_start_time"`
	PlannedDuration  string    `json:"planned_duration"`
	Customer         PersonRef `json:"customer"`
	Interpreter      PersonRef `json:"interpreter"`
	Language         Language  `json:"language"`
	GenderPreference string    `json:"gender_preference"`
	Company          string    `json:"company"`
	ActualStartTime  string    `json:"actual_start_time,omitempty"`
	ActualDuration   string    `json:"actual_duration,omitempty"`
	Invoiced         bool      `json:"invoice_generated"`
}

// Translation is a document-based job. Document is a server-side media path
// retrievable only through the protected file endpoint.
type Translation struct {
	ID              int       `json:"id"`
	Customer        PersonRef `json:"customer"`
	Interpreter     PersonRef `json:"interpreter"`
	Language        Language  `json:"language"`
	WordCount       int       `json:"word_count"`
	ActualWordCount int       `json:"actual_word_count,omitempty"`
	Company         string    `json:"company"`
	Document        string    `json:"document"`
	Invoiced        bool      `json:"invoice_generated"`
}

// Interpreter is the expanded record used by the admin matching screens.
type Interpreter struct {
	ID        int        `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Gender    string     `json:"gender"`
	Languages []Language `json:"languages"`
}

// AccountRequest is a pending customer self-registration awaiting admin
// approval.
type AccountRequest struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Organisation string `json:"organisation"`
	PhoneNumber  string `json:"phone_number"`
	Address      string `json:"address"`
	Postcode     string `json:"postcode"`
}

// ProfileField describes one editable field for the profile screen; the field
// set varies by account type and is dictated by the booking API.
type ProfileField struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Value   string   `json:"value"`
	Choices []string `json:"choices,omitempty"`
}
