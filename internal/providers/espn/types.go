package espn

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Time wraps time.Time to unmarshal both full RFC3339 timestamps and the
// shorter "YYYY-MM-DDThh:mmZ" strings returned by some ESPN endpoints.
type Time struct {
	time.Time
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Time) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}

	layouts := []string{
		time.RFC3339,             // 2006-01-02T15:04:05Z07:00
		"2006-01-02T15:04Z07:00", // no seconds
	}

	var parseErr error
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		parseErr = err
	}
	return parseErr
}

// Score unmarshals the score field, which varies by league: a quoted string
// ("24"), a bare number, or an object with value/displayValue. The alternates
// are tried in that fixed order.
type Score struct {
	Value int
	OK    bool
}

func (s *Score) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "" || raw == "null" {
		return nil
	}

	// Quoted string form.
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		if str == "" {
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return nil // non-numeric display string, treat as absent
		}
		s.Value, s.OK = n, true
		return nil
	}

	// Object form.
	if strings.HasPrefix(raw, "{") {
		var obj struct {
			Value        *float64 `json:"value"`
			DisplayValue string   `json:"displayValue"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.Value != nil {
			s.Value, s.OK = int(*obj.Value), true
			return nil
		}
		if n, err := strconv.Atoi(obj.DisplayValue); err == nil {
			s.Value, s.OK = n, true
		}
		return nil
	}

	// Bare number form.
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	s.Value, s.OK = int(f), true
	return nil
}

type scoreboardResponse struct {
	Events []Event `json:"events"`
}

// Event is a single game on an ESPN scoreboard.
type Event struct {
	ID           string        `json:"id"`
	Date         Time          `json:"date"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Competitions []Competition `json:"competitions"`
	Status       Status        `json:"status"`
}

// Competition carries the competitors, venue and broadcast data for an event.
type Competition struct {
	ID          string       `json:"id"`
	Date        Time         `json:"date"`
	Venue       Venue        `json:"venue"`
	Competitors []Competitor `json:"competitors"`
	Broadcasts  []Broadcast  `json:"broadcasts"`
	Odds        []EventOdds  `json:"odds"`
	Status      Status       `json:"status"`
}

type Venue struct {
	FullName string `json:"fullName"`
}

type Broadcast struct {
	Names []string `json:"names"`
}

// Competitor is one side of a competition.
type Competitor struct {
	ID       string   `json:"id"`
	HomeAway string   `json:"homeAway"`
	Team     Team     `json:"team"`
	Score    Score    `json:"score"`
	Records  []Record `json:"records"`
}

type Team struct {
	ID           string `json:"id"`
	Location     string `json:"location"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
	Color        string `json:"color"`
	Logo         string `json:"logo"`
	ConferenceID string `json:"conferenceId"`
}

type Record struct {
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

// EventOdds is the inline odds block some scoreboards include. The spread is
// quoted for the home side.
type EventOdds struct {
	Provider  OddsProvider `json:"provider"`
	Details   string       `json:"details"`
	OverUnder float64      `json:"overUnder"`
	Spread    float64      `json:"spread"`
}

type OddsProvider struct {
	Name string `json:"name"`
}

type Status struct {
	Clock        float64    `json:"clock"`
	DisplayClock string     `json:"displayClock"`
	Period       int        `json:"period"`
	Type         StatusType `json:"type"`
}

type StatusType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	State       string `json:"state"` // pre, in, post
	Completed   bool   `json:"completed"`
	Description string `json:"description"`
}

type scheduleResponse struct {
	Team   Team    `json:"team"`
	Events []Event `json:"events"`
}
