package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/gamelobby/lobbyqueue"
	"github.com/gamelobby/lobbyqueue/timewindow"
)

// Handler exposes the queue manager over HTTP.
type Handler struct {
	manager lobbyqueue.Manager
}

func NewHandler(m lobbyqueue.Manager) *Handler {
	return &Handler{manager: m}
}

type Error struct {
	Message string `json:"message"`
}

type JoinRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	DisplayName   string `json:"display_name" binding:"required"`
	Availability  string `json:"availability"`
	Destination   string `json:"destination"`
}

type JoinResponse struct {
	SizeClass string            `json:"size_class"`
	Window    *timewindow.Range `json:"window,omitempty"`
	Current   int               `json:"current"`
	Required  int               `json:"required"`
}

type LeaveResponse struct {
	Left []string `json:"left"`
}

type RespondRequest struct {
	ParticipantID string `json:"participant_id" binding:"required"`
	Confirmed     *bool  `json:"confirmed" binding:"required"`
}

type RoundView struct {
	ID        string   `json:"id"`
	SizeClass string   `json:"size_class"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type PoolView struct {
	RequiredSize int      `json:"required_size"`
	Current      int      `json:"current"`
	MemberIDs    []string `json:"member_ids"`
}

type StatusResponse struct {
	ServerTime string              `json:"server_time"`
	Queues     map[string]PoolView `json:"queues"`
	Rounds     []RoundView         `json:"rounds,omitempty"`
}

type DebugModeRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) PostJoin(c *gin.Context) {
	communityID := c.Param("community")
	sizeClass := c.Param("size")
	logger := log.WithFields(log.Fields{
		"community":  communityID,
		"size_class": sizeClass,
	})

	var body JoinRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	var window *timewindow.Range
	if body.Availability != "" {
		r, err := timewindow.ParseRange(body.Availability, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, Error{Message: err.Error()})
			return
		}
		window = &r
	}

	p := &lobbyqueue.Participant{
		ID:          body.ParticipantID,
		DisplayName: body.DisplayName,
		Window:      window,
		Destination: body.Destination,
	}
	if err := h.manager.Join(communityID, sizeClass, p); err != nil {
		switch {
		case errors.Is(err, lobbyqueue.ErrUnknownSizeClass):
			c.JSON(http.StatusNotFound, Error{Message: err.Error()})
		case errors.Is(err, lobbyqueue.ErrAlreadyQueued), errors.Is(err, lobbyqueue.ErrWindowExpired):
			c.JSON(http.StatusConflict, Error{Message: err.Error()})
		default:
			logger.WithError(err).Error("failed to join queue")
			c.JSON(http.StatusInternalServerError, Error{Message: "internal error"})
		}
		return
	}

	pool := h.manager.Queues(communityID)[sizeClass]
	logger.WithField("participant", body.ParticipantID).Info("participant joined queue")
	c.JSON(http.StatusOK, JoinResponse{
		SizeClass: sizeClass,
		Window:    window,
		Current:   len(pool.Members),
		Required:  pool.RequiredSize,
	})
}

func (h *Handler) DeleteMember(c *gin.Context) {
	communityID := c.Param("community")
	sizeClass := c.Param("size")
	participantID := c.Param("participant")

	left, err := h.manager.Leave(communityID, sizeClass, participantID)
	if err != nil {
		switch {
		case errors.Is(err, lobbyqueue.ErrUnknownSizeClass):
			c.JSON(http.StatusNotFound, Error{Message: err.Error()})
		case errors.Is(err, lobbyqueue.ErrNotQueued):
			c.JSON(http.StatusNotFound, Error{Message: err.Error()})
		default:
			log.WithError(err).Error("failed to leave queue")
			c.JSON(http.StatusInternalServerError, Error{Message: "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, LeaveResponse{Left: left})
}

func (h *Handler) GetStatus(c *gin.Context) {
	communityID := c.Param("community")

	queues := make(map[string]PoolView)
	for sizeClass, pool := range h.manager.Queues(communityID) {
		queues[sizeClass] = PoolView{
			RequiredSize: pool.RequiredSize,
			Current:      len(pool.Members),
			MemberIDs:    pool.MemberIDs(),
		}
	}

	rounds := make([]RoundView, 0)
	for _, sizeClass := range lobbyqueue.SizeClasses {
		round, ok := h.manager.ActiveRound(communityID, sizeClass)
		if !ok {
			continue
		}
		rounds = append(rounds, RoundView{
			ID:        round.ID,
			SizeClass: round.SizeClass,
			Members:   round.MemberIDs(),
			CreatedAt: round.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, StatusResponse{
		ServerTime: timewindow.NowWithZone(),
		Queues:     queues,
		Rounds:     rounds,
	})
}

func (h *Handler) PostResponse(c *gin.Context) {
	communityID := c.Param("community")
	sizeClass := c.Param("size")

	var body RespondRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	if err := h.manager.RecordResponse(communityID, sizeClass, body.ParticipantID, *body.Confirmed); err != nil {
		switch {
		case errors.Is(err, lobbyqueue.ErrMissingRoundContext):
			c.JSON(http.StatusNotFound, Error{Message: err.Error()})
		default:
			log.WithError(err).Error("failed to record response")
			c.JSON(http.StatusInternalServerError, Error{Message: "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"recorded": true})
}

func (h *Handler) PutDebugMode(c *gin.Context) {
	var body DebugModeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	h.manager.SetDebugMode(*body.Enabled)
	log.WithField("enabled", *body.Enabled).Info("debug mode changed")
	c.JSON(http.StatusOK, gin.H{"debug_mode": *body.Enabled})
}

func (h *Handler) PostFill(c *gin.Context) {
	communityID := c.Param("community")
	sizeClass := c.Param("size")

	var body JoinRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Error{Message: "invalid request body"})
		return
	}

	seed := &lobbyqueue.Participant{
		ID:          body.ParticipantID,
		DisplayName: body.DisplayName,
		Destination: body.Destination,
	}
	if err := h.manager.FillSynthetic(communityID, sizeClass, seed); err != nil {
		switch {
		case errors.Is(err, lobbyqueue.ErrUnknownSizeClass):
			c.JSON(http.StatusNotFound, Error{Message: err.Error()})
		case errors.Is(err, lobbyqueue.ErrDebugModeDisabled):
			c.JSON(http.StatusForbidden, Error{Message: err.Error()})
		default:
			log.WithError(err).Error("failed to fill queue")
			c.JSON(http.StatusInternalServerError, Error{Message: "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"filled": true})
}
