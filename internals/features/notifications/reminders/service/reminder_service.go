package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	clientModel "admon_backend/internals/features/clients/clients/model"
	projectModel "admon_backend/internals/features/clients/projects/model"
	"admon_backend/internals/features/notifications/reminders/model"
	subscriptionModel "admon_backend/internals/features/sales/subscriptions/model"
	"admon_backend/internals/helpers/dbtime"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrNotOverdue           = errors.New("subscription is not overdue")
	ErrNoEmail              = errors.New("client has no email")
	ErrDispatch             = errors.New("reminder could not be dispatched")
)

type Service struct {
	DB       *gorm.DB
	Notifier *Notifier
	Now      func() time.Time
}

func NewService(db *gorm.DB, n *Notifier) *Service {
	return &Service{DB: db, Notifier: n, Now: time.Now}
}

// Build assembles the reminder for an active, overdue subscription.
func (s *Service) Build(ctx context.Context, subID uuid.UUID, loc *time.Location) (*subscriptionModel.SubscriptionModel, Payload, error) {
	db := s.DB.WithContext(ctx)

	var sub subscriptionModel.SubscriptionModel
	if err := db.First(&sub, "id = ?", subID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Payload{}, ErrSubscriptionNotFound
		}
		return nil, Payload{}, fmt.Errorf("load subscription: %w", err)
	}

	if loc == nil {
		loc = time.UTC
	}
	today := dbtime.StartOfDay(s.Now(), loc)
	if !sub.SubscriptionIsActive || sub.SubscriptionNextDueDate == nil {
		return &sub, Payload{}, ErrNotOverdue
	}
	due := *sub.SubscriptionNextDueDate
	dueLocal := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, loc)
	if !dueLocal.Before(today) {
		return &sub, Payload{}, ErrNotOverdue
	}

	var client clientModel.ClientModel
	if err := db.First(&client, "id = ?", sub.SubscriptionClientID).Error; err != nil {
		return &sub, Payload{}, fmt.Errorf("load client: %w", err)
	}
	if client.ClientEmail == nil || strings.TrimSpace(*client.ClientEmail) == "" {
		return &sub, Payload{}, ErrNoEmail
	}

	var project projectModel.ProjectModel
	if err := db.Limit(1).Find(&project, "id = ?", sub.SubscriptionProjectID).Error; err != nil {
		return &sub, Payload{}, fmt.Errorf("load project: %w", err)
	}

	return &sub, Payload{
		ClienteEmail:     strings.TrimSpace(*client.ClientEmail),
		ClienteNombre:    client.ClientName,
		ProyectoNombre:   project.ProjectName,
		Mensualidad:      sub.SubscriptionMonthlyFee.InexactFloat64(),
		DiasAtraso:       dbtime.DaysBetween(dueLocal, today, loc),
		FechaVencimiento: due.Format(dbtime.DateLayout),
	}, nil
}

// Send dispatches the reminder and records the attempt either way.
func (s *Service) Send(ctx context.Context, subID uuid.UUID, loc *time.Location) (*model.ReminderLogModel, error) {
	if !s.Notifier.Enabled() {
		return nil, ErrNotifierDisabled
	}
	sub, p, err := s.Build(ctx, subID, loc)
	if err != nil {
		return nil, err
	}

	sendErr := s.Notifier.Send(p)

	// the api key never reaches the log table
	p.APIKey = ""
	raw, err := sonic.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	row := model.ReminderLogModel{
		ReminderSubscriptionID: sub.SubscriptionID,
		ReminderClientID:       sub.SubscriptionClientID,
		ReminderPayload:        datatypes.JSON(raw),
		ReminderDispatched:     sendErr == nil,
	}
	if sendErr != nil {
		msg := sendErr.Error()
		row.ReminderError = &msg
		log.Printf("[REMINDER] ❌ %s → %s: %v", sub.SubscriptionID, p.ClienteEmail, sendErr)
	} else {
		log.Printf("[REMINDER] ✅ %s → %s (%d días)", sub.SubscriptionID, p.ClienteEmail, p.DiasAtraso)
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("[REMINDER] log write failed: %v", err)
	}

	if sendErr != nil {
		return &row, fmt.Errorf("%w: %v", ErrDispatch, sendErr)
	}
	return &row, nil
}

// History lists the attempts for one subscription, newest first.
func (s *Service) History(ctx context.Context, subID uuid.UUID) ([]model.ReminderLogModel, error) {
	var rows []model.ReminderLogModel
	err := s.DB.WithContext(ctx).
		Where("suscripcion_id = ?", subID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
