package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"menu-planner/config"
	"menu-planner/domain"
	"menu-planner/export"
)

const (
	exportFileName = "menu-plan.xlsx"
	xlsxMIME       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultBoardID = "menu-plan"
)

// Options lists the optional collaborators of a Server. Nil members disable
// the routes that need them.
type Options struct {
	BoardID string
	Drafts  domain.DraftStore
	Fetcher domain.Fetcher
	Journal Journal
	Deduper Deduper
	Broker  *Broker
	Pool    config.JournalConfig
}

// Server serves one board over HTTP.
type Server struct {
	board   *domain.Board
	boardID string
	drafts  domain.DraftStore
	fetcher domain.Fetcher
	deduper Deduper
	broker  *Broker
	sender  *commandSender
	log     *log.Logger
}

// NewServer creates a server for board. Close must be called to drain the
// command journal.
func NewServer(board *domain.Board, opts Options, logger *log.Logger) *Server {
	if board == nil {
		panic("api.NewServer: board is nil")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Server{
		board:   board,
		boardID: opts.BoardID,
		drafts:  opts.Drafts,
		fetcher: opts.Fetcher,
		deduper: opts.Deduper,
		broker:  opts.Broker,
		log:     logger,
	}
	if s.boardID == "" {
		s.boardID = defaultBoardID
	}
	if s.broker == nil {
		s.broker = NewBroker()
	}
	if opts.Journal != nil {
		s.sender = newCommandSender(opts.Journal, logger, opts.Pool)
	}
	return s
}

// Broker returns the broker stream subscribers listen on.
func (s *Server) Broker() *Broker {
	return s.broker
}

// Close drains the command journal.
func (s *Server) Close() {
	if s.sender != nil {
		s.sender.Close()
	}
}

// Register wires up all API routes on the provided Echo instance.
func (s *Server) Register(e *echo.Echo) {
	g := e.Group("/api", RequestMetrics(s.log))
	g.GET("/catalog", s.getCatalog)
	g.GET("/board", s.getBoard)
	g.POST("/commands", s.postCommands)
	g.POST("/sections/:section/fetch", s.postFetch)
	g.GET("/export", s.getExport)
	g.PUT("/draft", s.putDraft)
	g.POST("/draft/load", s.loadDraft)
	g.GET("/stream", s.streamBoard)
	e.GET("/healthz", s.healthz)
}

func (s *Server) healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (s *Server) getCatalog(c echo.Context) error {
	catalog := s.board.Catalog()
	resp := make([]catalogSection, 0, len(domain.Sections()))
	for _, section := range domain.Sections() {
		resp = append(resp, catalogSection{Name: section, Categories: catalog.Categories(section)})
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) getBoard(c echo.Context) error {
	return c.JSON(http.StatusOK, s.board.View())
}

func (s *Server) postCommands(c echo.Context) error {
	metrics := metricsFrom(c)
	ctx := c.Request().Context()

	lr := io.LimitReader(c.Request().Body, postCommandMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()

	cmds := make([]domain.Command, 0, 4)
	if err := dec.Decode(&cmds); err != nil {
		metrics.SetErrorStage("decode")
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid body"})
	}
	metrics.SetCount("commands_received", len(cmds))

	keys := finalizeCommands(cmds)
	fresh, err := s.dedupe(ctx, keys)
	if err != nil {
		metrics.SetErrorStage("dedupe")
		s.log.WithError(err).Error("dedupe failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to record idempotency keys"})
	}

	resp := postCommandResponse{IdempotencyKeys: keys}
	applied := make([]domain.Command, 0, len(cmds))
	var failed *domain.CommandError
	for i, cmd := range cmds {
		if !fresh[i] {
			resp.Duplicates = append(resp.Duplicates, keys[i])
			continue
		}
		if err := s.board.Apply(cmd); err != nil {
			failed = &domain.CommandError{Index: i, Type: cmd.Type, Err: err}
			s.releaseKeys(ctx, keys[i:], fresh[i:])
			break
		}
		applied = append(applied, cmd)
	}
	resp.Applied = len(applied)
	metrics.SetCount("commands_applied", len(applied))
	metrics.SetCount("commands_duplicate", len(resp.Duplicates))

	if len(applied) > 0 && s.sender != nil {
		s.sender.Submit(journalJob{boardID: s.boardID, cmds: applied})
	}

	if failed != nil {
		metrics.SetErrorStage("apply")
		index := failed.Index
		resp.FailedIndex = &index
		resp.Error = failed.Error()
		status := http.StatusBadRequest
		if errors.Is(failed, domain.ErrDayLocked) {
			status = http.StatusConflict
		}
		return c.JSON(status, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// dedupe reports which keys are new. Without a deduper every key is new.
func (s *Server) dedupe(ctx context.Context, keys []string) ([]bool, error) {
	if s.deduper == nil {
		fresh := make([]bool, len(keys))
		for i := range fresh {
			fresh[i] = true
		}
		return fresh, nil
	}
	fresh, err := s.deduper.AddMany(ctx, s.boardID, keys)
	if err != nil {
		s.releaseKeys(ctx, keys, fresh)
		return nil, err
	}
	return fresh, nil
}

// releaseKeys forgets keys recorded for commands that were not applied.
func (s *Server) releaseKeys(ctx context.Context, keys []string, fresh []bool) {
	if s.deduper == nil {
		return
	}
	for i, k := range keys {
		if i >= len(fresh) || !fresh[i] {
			continue
		}
		if err := s.deduper.Remove(ctx, s.boardID, k); err != nil {
			s.log.WithError(err).WithField("key", k).Error("dedupe rollback failed")
		}
	}
}

func (s *Server) postFetch(c echo.Context) error {
	section, err := domain.ParseSection(c.Param("section"))
	if err != nil {
		metricsFrom(c).SetErrorStage("section")
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}
	if s.fetcher == nil {
		return c.JSON(http.StatusNotImplemented, errorResponse{Error: "fetching is not configured"})
	}
	if _, err := s.board.StartFetch(c.Request().Context(), section, s.fetcher); err != nil {
		if errors.Is(err, domain.ErrFetchPending) {
			return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusAccepted, fetchResponse{Section: section, Status: "started"})
}

func (s *Server) getExport(c echo.Context) error {
	var buf bytes.Buffer
	if err := s.board.ExportAll(c.Request().Context(), export.NewXLSX(&buf)); err != nil {
		metricsFrom(c).SetErrorStage("export")
		s.log.WithError(err).Error("export failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "export failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+exportFileName+`"`)
	return c.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (s *Server) putDraft(c echo.Context) error {
	if s.drafts == nil {
		return c.JSON(http.StatusNotImplemented, errorResponse{Error: "drafts are not configured"})
	}
	if err := s.board.SaveDraft(c.Request().Context(), s.drafts); err != nil {
		metricsFrom(c).SetErrorStage("storage")
		s.log.WithError(err).Error("save draft failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to save draft"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) loadDraft(c echo.Context) error {
	if s.drafts == nil {
		return c.JSON(http.StatusNotImplemented, errorResponse{Error: "drafts are not configured"})
	}
	if err := s.board.LoadDraft(c.Request().Context(), s.drafts); err != nil {
		if errors.Is(err, domain.ErrDraftNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		}
		metricsFrom(c).SetErrorStage("storage")
		s.log.WithError(err).Error("load draft failed")
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load draft"})
	}
	return c.JSON(http.StatusOK, s.board.View())
}
