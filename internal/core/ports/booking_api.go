package ports

import (
	"context"
	"io"

	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
)

// RegisterCustomerInput is the customer self-registration payload; the request
// lands in the admin approval queue rather than creating an account directly.
type RegisterCustomerInput struct {
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" form:"first_name" validate:"required"`
	LastName        string `json:"last_name" form:"last_name" validate:"required"`
	Organisation    string `json:"organisation" form:"organisation" validate:"required"`
	PhoneNumber     string `json:"phone_number" form:"phone_number"`
	AltPhoneNumber  string `json:"alt_phone_number" form:"alt_phone_number"`
	Address         string `json:"address" form:"address" validate:"required"`
	Postcode        string `json:"postcode" form:"postcode" validate:"required"`
}

// CreateAccountInput is the admin-side account creation payload. Type selects
// which optional fields the API expects: customers carry organisation and an
// address, interpreters carry gender and languages, admins carry neither.
type CreateAccountInput struct {
	Type            string   `json:"type" form:"type" validate:"required,oneof=admin interpreter customer"`
	Email           string   `json:"email" form:"email" validate:"required,email"`
	Password        string   `json:"password" form:"password" validate:"required,min=8"`
	ConfirmPassword string   `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
	FirstName       string   `json:"first_name" form:"first_name" validate:"required"`
	LastName        string   `json:"last_name" form:"last_name" validate:"required"`
	PhoneNumber     string   `json:"phone_number" form:"phone_number"`
	AltPhoneNumber  string   `json:"alt_phone_number" form:"alt_phone_number"`
	Notes           string   `json:"notes" form:"notes"`
	Organisation    string   `json:"organisation,omitempty" form:"organisation"`
	Address         string   `json:"address,omitempty" form:"address"`
	Postcode        string   `json:"postcode,omitempty" form:"postcode"`
	Gender          string   `json:"gender,omitempty" form:"gender"`
	Languages       []string `json:"languages,omitempty" form:"languages"`
}

// RequestAppointmentInput is the customer booking form.
type RequestAppointmentInput struct {
	Location         string `json:"location" form:"location" validate:"required"`
	PlannedStartTime string `json:"planned_start_time" form:"planned_start_time" validate:"required"`
	PlannedDuration  string `json:"planned_duration" form:"planned_duration" validate:"required"`
	Language         string `json:"language" form:"language" validate:"required"`
	GenderPreference string `json:"gender_preference" form:"gender_preference"`
	Company          string `json:"company" form:"company"`
}

// RequestTranslationInput is the customer translation form. The document is
// uploaded as multipart alongside these fields.
type RequestTranslationInput struct {
	Language  string `form:"language" validate:"required"`
	WordCount int    `form:"word_count" validate:"required,gt=0"`
	Company   string `form:"company"`
}

// EditAppointmentInput updates an accepted appointment's actuals.
type EditAppointmentInput struct {
	AppointmentID   int    `json:"appointmentID" form:"appointment_id" validate:"required"`
	ActualStartTime string `json:"actual_start_time" form:"actual_start_time"`
	ActualDuration  string `json:"actual_duration" form:"actual_duration"`
}

// FileDownload is an opaque blob fetched from the protected media endpoint.
// Body must be closed by the caller.
type FileDownload struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
}

// BookingAPI is the gateway's view of the remote Auth/Job API. Every method
// either returns decoded payload data, a *domain.APIError for an envelope
// error, or a plain error for transport failures — callers branch on the
// error kind instead of a status field.
//
// All calls are made on behalf of one browser and carry that browser's
// upstream session cookie.
type BookingAPI interface {
	// Session & accounts.
	CheckAuth(ctx context.Context, upstreamCookie string) (domain.Role, error)
	Login(ctx context.Context, email, password string) (role domain.Role, upstreamCookie string, err error)
	Logout(ctx context.Context, upstreamCookie string) error
	RegisterCustomer(ctx context.Context, in RegisterCustomerInput) error
	CreateAccount(ctx context.Context, upstreamCookie string, in CreateAccountInput) error
	PendingAccountRequests(ctx context.Context, upstreamCookie string) ([]domain.AccountRequest, error)
	ResolveAccountRequest(ctx context.Context, upstreamCookie, email string, accepted bool) error

	// Appointments.
	FetchAppointments(ctx context.Context, upstreamCookie string, unassigned bool) ([]domain.Appointment, error)
	OfferedAppointments(ctx context.Context, upstreamCookie string) ([]domain.Appointment, error)
	AcceptedAppointments(ctx context.Context, upstreamCookie string) ([]domain.Appointment, error)
	RequestAppointment(ctx context.Context, upstreamCookie string, in RequestAppointmentInput) error
	OfferAppointment(ctx context.Context, upstreamCookie string, appointmentID int, interpreterEmails []string) error
	RespondToAppointmentOffer(ctx context.Context, upstreamCookie string, appointmentID int, accepted bool) error
	EditAppointment(ctx context.Context, upstreamCookie string, in EditAppointmentInput) error
	ToggleAppointmentInvoice(ctx context.Context, upstreamCookie string, appointmentID int) error

	// Translations.
	FetchTranslations(ctx context.Context, upstreamCookie string, unassigned bool) ([]domain.Translation, error)
	OfferedTranslations(ctx context.Context, upstreamCookie string) ([]domain.Translation, error)
	AcceptedTranslations(ctx context.Context, upstreamCookie string) ([]domain.Translation, error)
	RequestTranslation(ctx context.Context, upstreamCookie string, in RequestTranslationInput, document io.Reader, filename string) error
	OfferTranslation(ctx context.Context, upstreamCookie string, translationID int, interpreterEmails []string) error
	RespondToTranslationOffer(ctx context.Context, upstreamCookie string, translationID int, accepted bool) error
	SetTranslationWordCount(ctx context.Context, upstreamCookie string, translationID, actualWordCount int) error
	ToggleTranslationInvoice(ctx context.Context, upstreamCookie string, translationID int) error

	// Reference data & profile.
	Languages(ctx context.Context, upstreamCookie string) ([]domain.Language, error)
	Interpreters(ctx context.Context, upstreamCookie string) ([]domain.Interpreter, error)
	ProfileFields(ctx context.Context, upstreamCookie, user string) ([]domain.ProfileField, error)
	EditProfile(ctx context.Context, upstreamCookie, user string, fields map[string]string) error

	// Files.
	DownloadFile(ctx context.Context, upstreamCookie, path string) (*FileDownload, error)
}
