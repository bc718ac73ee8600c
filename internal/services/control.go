package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bm9tech/wrapdash/internal/models"
	"github.com/bm9tech/wrapdash/internal/plant"
	"github.com/bm9tech/wrapdash/pkg/logger"
	"gorm.io/gorm"
)

var (
	// ErrUnknownMachine means the machine id is not A or B.
	ErrUnknownMachine = errors.New("unknown machine")
	// ErrInvalidCommand means the command is not START, STOP or RESET.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrDispatchFailed wraps a backend rejection of a control command.
	// Unlike report fetch failures this is surfaced to the operator: a
	// failed machine command is safety relevant.
	ErrDispatchFailed = errors.New("control dispatch failed")
)

var validCommands = map[string]bool{
	"START": true,
	"STOP":  true,
	"RESET": true,
}

// ControlService forwards operator commands to the plant backend, records an
// audit row for every attempt, and triggers an immediate status refresh after
// a successful dispatch.
type ControlService struct {
	client *plant.Client
	db     *gorm.DB
	poller *StatusPoller
}

// NewControlService creates a control service.
func NewControlService(client *plant.Client, db *gorm.DB, poller *StatusPoller) *ControlService {
	return &ControlService{client: client, db: db, poller: poller}
}

// Dispatch validates and forwards one control command. operator and ip are
// recorded in the audit trail.
func (s *ControlService) Dispatch(ctx context.Context, machineID, command, operator, ip string) error {
	machine := plant.Machine(strings.ToUpper(strings.TrimSpace(machineID)))
	if !machine.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMachine, machineID)
	}

	command = strings.ToUpper(strings.TrimSpace(command))
	if !validCommands[command] {
		return fmt.Errorf("%w: %q", ErrInvalidCommand, command)
	}

	err := s.client.SendControl(ctx, machine, command)
	s.audit(machine, command, operator, ip, err)

	if err != nil {
		logger.Error().Err(err).
			Str("machine", string(machine)).
			Str("command", command).
			Str("operator", operator).
			Msg("control dispatch failed")
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}

	logger.Info().
		Str("machine", string(machine)).
		Str("command", command).
		Str("operator", operator).
		Msg("control command dispatched")

	// One immediate out-of-band status poll so the UI sees the effect.
	if s.poller != nil {
		s.poller.RefreshNow()
	}
	return nil
}

func (s *ControlService) audit(machine plant.Machine, command, operator, ip string, dispatchErr error) {
	if s.db == nil {
		return
	}
	entry := models.ControlAudit{
		Machine:  string(machine),
		Command:  command,
		Operator: operator,
		IP:       ip,
		Success:  dispatchErr == nil,
	}
	if dispatchErr != nil {
		entry.Error = dispatchErr.Error()
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Error().Err(err).Msg("failed to write control audit entry")
	}
}

// RecentAudits returns the latest audit entries, newest first.
func (s *ControlService) RecentAudits(limit int) ([]models.ControlAudit, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var entries []models.ControlAudit
	err := s.db.Order("id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
