package seed

import (
	"fmt"
	"io"
	"strings"
)

// Summary counts what each stage achieved.
type Summary struct {
	AdminEmail string
	Backdated  bool
	RandomSeed uint64

	SpeakersCreated      int
	SpeakersExisting     int
	UsersCreated         int
	UsersExisting        int
	RegistrationFailures int
	// GatewayErrors is set when any registration came back 502.
	GatewayErrors bool

	UsersActivated int
	ProfilesFound  int

	Events          int
	EventFailures   int
	Sessions        int
	SessionSpeakers int

	Bookings         int
	BookingConflicts int
	BookingFailures  int

	Invitations          int
	InvitationDuplicates int
	InvitationFailures   int
	InvitationMessages   int
	Accepted             int
	Declined             int
	MessagesRead         int

	Materials int
	Messages  int

	UserDatesUpdated           int
	BookingDatesUpdated        int
	SessionSpeakerDatesUpdated int
	MaterialDatesUpdated       int
	BackfillFailures           int
}

func (s *Summary) Speakers() int { return s.SpeakersCreated + s.SpeakersExisting }
func (s *Summary) Users() int    { return s.UsersCreated + s.UsersExisting }

func (s *Summary) Print(w io.Writer) {
	line := strings.Repeat("=", 50)

	fmt.Fprintln(w)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "📊 Seeding Summary")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "👤 Speakers:        %d (%d new, %d existing)\n", s.Speakers(), s.SpeakersCreated, s.SpeakersExisting)
	fmt.Fprintf(w, "👥 Users:           %d (%d new, %d existing)\n", s.Users(), s.UsersCreated, s.UsersExisting)
	if s.RegistrationFailures > 0 {
		fmt.Fprintf(w, "❌ Failed signups:  %d\n", s.RegistrationFailures)
	}
	fmt.Fprintf(w, "✅ Activated:       %d\n", s.UsersActivated)
	fmt.Fprintf(w, "🎤 Profiles found:  %d\n", s.ProfilesFound)
	fmt.Fprintf(w, "📅 Events:          %d (%d sessions, %d speaker slots)\n", s.Events, s.Sessions, s.SessionSpeakers)
	fmt.Fprintf(w, "🎟️  Bookings:        %d (%d conflicts, %d failed)\n", s.Bookings, s.BookingConflicts, s.BookingFailures)
	fmt.Fprintf(w, "✉️  Invitations:     %d (%d duplicates, %d failed)\n", s.Invitations, s.InvitationDuplicates, s.InvitationFailures)
	fmt.Fprintf(w, "   Accepted/Declined: %d/%d, messages read: %d\n", s.Accepted, s.Declined, s.MessagesRead)
	fmt.Fprintf(w, "📎 Materials:       %d\n", s.Materials)
	fmt.Fprintf(w, "💬 Messages:        %d (+%d with invitations)\n", s.Messages, s.InvitationMessages)

	if s.Backdated {
		fmt.Fprintf(w, "🕰️  Backdated:       %d users, %d bookings, %d session speakers, %d materials",
			s.UserDatesUpdated, s.BookingDatesUpdated, s.SessionSpeakerDatesUpdated, s.MaterialDatesUpdated)
		if s.BackfillFailures > 0 {
			fmt.Fprintf(w, " (%d failed)", s.BackfillFailures)
		}
		fmt.Fprintln(w)
	}

	if s.GatewayErrors {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "⚠️  Some registrations returned 502 Bad Gateway.")
		fmt.Fprintln(w, "   The gateway could not reach the auth service; check that it is running.")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "🔑 Credentials:")
	fmt.Fprintf(w, "   Admin:    %s\n", s.AdminEmail)
	fmt.Fprintln(w, "   Speakers: speaker{N}@test.com / Speaker{N}123!")
	fmt.Fprintln(w, "   Users:    user{N}@test.com / User{N}123!")
	fmt.Fprintf(w, "🎲 Random seed: %d\n", s.RandomSeed)
	fmt.Fprintln(w, line)
}
