package api

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"menu-planner/config"
	"menu-planner/domain"
)

type journalJob struct {
	boardID string
	cmds    []domain.Command
}

// commandSender hands applied commands to the journal on a bounded worker
// pool. When the buffer stays full past the handoff timeout the job is sent
// inline by the caller.
type commandSender struct {
	journal        Journal
	logger         *log.Logger
	jobs           chan journalJob
	timeout        time.Duration
	handoffTimeout time.Duration
	wg             sync.WaitGroup
	closeOnce      sync.Once
}

func newCommandSender(journal Journal, logger *log.Logger, cfg config.JournalConfig) *commandSender {
	if logger == nil {
		panic("api.newCommandSender: logger is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	buffer := cfg.Buffer
	if buffer < 0 {
		buffer = 0
	}
	s := &commandSender{
		journal:        journal,
		logger:         logger,
		jobs:           make(chan journalJob, buffer),
		timeout:        cfg.Timeout,
		handoffTimeout: cfg.HandoffTimeout,
	}
	if s.timeout <= 0 {
		s.timeout = 30 * time.Second
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	logger.Infof("command journal started, workers: %d, buffer: %d, timeout: %v, handoff: %v", workers, buffer, s.timeout, s.handoffTimeout)
	return s
}

func (s *commandSender) worker(id int) {
	defer s.wg.Done()
	for j := range s.jobs {
		s.send(j, id)
	}
}

func (s *commandSender) send(j journalJob, worker int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	err := s.journal.EnqueueCommands(ctx, j.boardID, j.cmds)
	cancel()
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"board":  j.boardID,
			"count":  len(j.cmds),
			"worker": worker,
		}).Error("journal enqueue failed")
	}
}

// Submit queues the job, falling back to an inline send when saturated.
func (s *commandSender) Submit(j journalJob) {
	if s.tryEnqueue(j) {
		return
	}
	s.logger.Warn("journal buffer saturated; sending inline")
	s.send(j, -1)
}

func (s *commandSender) tryEnqueue(job journalJob) bool {
	if ok, closed := trySendNonBlocking(s.jobs, job); closed {
		return false
	} else if ok {
		return true
	}

	if s.handoffTimeout <= 0 {
		return false
	}

	timer := time.NewTimer(s.handoffTimeout)
	defer timer.Stop()

	ok, closed := sendWithTimer(s.jobs, job, timer.C)
	if closed {
		return false
	}
	return ok
}

// Close stops accepting jobs and waits for queued ones to finish.
func (s *commandSender) Close() {
	s.closeOnce.Do(func() {
		close(s.jobs)
	})
	s.wg.Wait()
}

func trySendNonBlocking(ch chan journalJob, job journalJob) (ok bool, closed bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			closed = true
		}
	}()

	select {
	case ch <- job:
		return true, false
	default:
		return false, false
	}
}

func sendWithTimer(ch chan journalJob, job journalJob, timer <-chan time.Time) (ok bool, closed bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			closed = true
		}
	}()

	select {
	case ch <- job:
		return true, false
	case <-timer:
		return false, false
	}
}
