package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phillyfan-api/internal/domain"
	"github.com/phillyfan-api/internal/service"
)

// GetPhillySchedule returns upcoming games across every tracked team.
func (h *Handler) GetPhillySchedule(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, h.sports.PhillySchedule(r.Context()))
}

// GetScores returns scoreboards for the tracked teams on a date (today ET by
// default).
func (h *Handler) GetScores(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, h.sports.Scores(r.Context(), r.URL.Query().Get("date")))
}

// gameDetailResponse is a single-game merge plus any enrichment failures.
type gameDetailResponse struct {
	Game   *domain.NormalizedGame `json:"game"`
	Errors []service.SourceError  `json:"errors"`
}

// GetGameDetail returns a single game with odds enrichment.
func (h *Handler) GetGameDetail(w http.ResponseWriter, r *http.Request) {
	sport, err := domain.ParseSport(r.URL.Query().Get("sport"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	game, sourceErrs, err := h.sports.GameDetail(r.Context(), sport, chi.URLParam(r, "gameID"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.writeSuccess(w, gameDetailResponse{Game: game, Errors: sourceErrs})
}

// GetStandings returns division-grouped standings for a league.
func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	sport, err := domain.ParseSport(chi.URLParam(r, "sport"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	standings, err := h.sports.Standings(r.Context(), sport, r.URL.Query().Get("season"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, standings)
}

// GetCollegeStandings returns the division standings around one college team.
func (h *Handler) GetCollegeStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.sports.CollegeStandings(r.Context(), r.URL.Query().Get("team"), r.URL.Query().Get("season"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, standings)
}

// GetLeagueSchedules returns a season schedule for one league.
func (h *Handler) GetLeagueSchedules(w http.ResponseWriter, r *http.Request) {
	sport, err := domain.ParseSport(r.URL.Query().Get("sport"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	games, err := h.sports.LeagueSchedules(r.Context(), sport, r.URL.Query().Get("season"), r.URL.Query().Get("team"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, games)
}

// GetLeagueStandings returns provider-ranked standings for one league.
func (h *Handler) GetLeagueStandings(w http.ResponseWriter, r *http.Request) {
	sport, err := domain.ParseSport(r.URL.Query().Get("sport"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	standings, err := h.sports.Standings(r.Context(), sport, r.URL.Query().Get("season"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, standings)
}

// GetOdds returns consensus betting quotes for a league on a date.
func (h *Handler) GetOdds(w http.ResponseWriter, r *http.Request) {
	sport, err := domain.ParseSport(r.URL.Query().Get("sport"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	quotes, err := h.sports.Odds(r.Context(), sport, r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.writeSuccess(w, quotes)
}
