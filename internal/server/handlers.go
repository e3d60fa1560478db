package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alkime/promo/internal/lead"
	"github.com/alkime/promo/internal/share"
	"github.com/gin-gonic/gin"
)

var errNotShareStep = errors.New("sharing is only available on the last step")

type imageOption struct {
	Index    int
	Number   int
	URL      string
	Selected bool
}

type fieldView struct {
	Name  string
	Label string
	Value string
}

type platformView struct {
	Slug string
	Name string
}

// pageData is everything templates/wizard.html renders.
type pageData struct {
	Step       int
	StepName   string
	State      lead.State
	CanAdvance bool
	Locked     bool
	Images     []imageOption
	Fields     []fieldView
	Platforms  []platformView
}

func newPageData(st lead.State) pageData {
	data := pageData{
		Step:       int(st.Step),
		StepName:   st.Step.String(),
		State:      st,
		CanAdvance: st.CanAdvance(),
		Locked:     st.FormLocked(),
	}

	for i, url := range lead.SampleImages {
		data.Images = append(data.Images, imageOption{Index: i, Number: i + 1, URL: url, Selected: url == st.SelectedImage})
	}

	for _, f := range lead.Fields() {
		data.Fields = append(data.Fields, fieldView{Name: string(f), Label: f.Label(), Value: st.Form.Get(f)})
	}

	for _, p := range share.Platforms() {
		data.Platforms = append(data.Platforms, platformView{Slug: string(p), Name: p.DisplayName()})
	}

	return data
}

func (s *Server) handleIndex(c *gin.Context) {
	st, ok := s.withState(c, nil)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "wizard.html", newPageData(st))
}

func (s *Server) handleState(c *gin.Context) {
	st, ok := s.withState(c, nil)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, st)
}

func (s *Server) handleAdvance(c *gin.Context) {
	st, ok := s.withState(c, func(st *lead.State) {
		if st.CanAdvance() {
			st.Advance()
		}
	})
	if !ok {
		return
	}

	s.respond(c, st)
}

func (s *Server) handleReset(c *gin.Context) {
	st, ok := s.withState(c, func(st *lead.State) {
		st.Reset()
	})
	if !ok {
		return
	}

	s.logger.Debug("lead reset", "session", sessionID(c).String())
	s.respond(c, st)
}

func (s *Server) handleSelectImage(c *gin.Context) {
	idx, err := strconv.Atoi(c.PostForm("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image index"})
		return
	}

	var selectErr error
	st, ok := s.withState(c, func(st *lead.State) {
		selectErr = st.SelectImageAt(idx)
	})
	if !ok {
		return
	}

	if selectErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": selectErr.Error()})
		return
	}

	s.respond(c, st)
}

// handleForm applies every known field present in the request.
// Fields are ignored while the form is locked.
func (s *Server) handleForm(c *gin.Context) {
	st, ok := s.withState(c, func(st *lead.State) {
		for _, f := range lead.Fields() {
			if v, ok := c.GetPostForm(string(f)); ok {
				st.SetField(f, v)
			}
		}
	})
	if !ok {
		return
	}

	s.respond(c, st)
}

func (s *Server) handleRecordingStart(c *gin.Context) {
	st, ok := s.withState(c, func(st *lead.State) {
		st.BeginRecording(time.Now())
	})
	if !ok {
		return
	}

	c.JSON(http.StatusOK, st)
}

func (s *Server) handleRecordingStop(c *gin.Context) {
	st, ok := s.withState(c, func(st *lead.State) {
		st.FinishRecording(time.Now())
	})
	if !ok {
		return
	}

	if st.RecordedVideo != nil {
		s.logger.Info("recording captured",
			"session", sessionID(c).String(),
			"recording", st.RecordedVideo.ID.String(),
			"duration", st.RecordedVideo.Duration(),
		)
	}

	c.JSON(http.StatusOK, st)
}

func (s *Server) handleShare(c *gin.Context) {
	platform, err := share.ParsePlatform(c.Param("platform"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	st, ok := s.withState(c, nil)
	if !ok {
		return
	}

	if st.Step != lead.StepShare {
		c.JSON(http.StatusConflict, gin.H{"error": errNotShareStep.Error()})
		return
	}

	link, err := share.URL(platform, st.Form, s.pageURL(c))
	if err != nil {
		s.logger.Error("failed to build share link", "platform", platform, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build share link"})

		return
	}

	s.logger.Info("lead shared", "session", sessionID(c).String(), "platform", platform)
	c.Redirect(http.StatusFound, link)
}

// withState runs fn against the caller's lead. A session that disappeared
// since the middleware saw it sends the browser back to a fresh start.
func (s *Server) withState(c *gin.Context, fn func(*lead.State)) (lead.State, bool) {
	st, ok := s.sessions.Do(sessionID(c), fn)
	if !ok {
		s.logger.Debug("session expired mid-request", "session", sessionID(c).String())
		c.Redirect(http.StatusSeeOther, "/")
	}

	return st, ok
}

// respond answers script callers with the state and browsers with a redirect
// back to the page.
func (s *Server) respond(c *gin.Context, st lead.State) {
	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, st)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// pageURL is the link attached to Telegram shares.
func (s *Server) pageURL(c *gin.Context) string {
	if s.config.PublicURL != "" {
		return s.config.PublicURL
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" && s.trustedForwarding(c) {
		scheme = proto
	}

	return scheme + "://" + c.Request.Host + "/"
}
