package cmd

import (
	"context"
	"fmt"

	"luckydraw/config"
	"luckydraw/database"
	"luckydraw/events"
	"luckydraw/models"
	"luckydraw/repository"

	log "github.com/sirupsen/logrus"
)

const seedEventCode = "yearend-2026"

var seedDepartments = []string{"Engineering", "Finance", "Marketing", "Operations", "Human Resources"}

var seedPrizes = []struct {
	name     string
	quantity int
}{
	{"Special Prize", 1},
	{"First Prize", 2},
	{"Second Prize", 3},
	{"Third Prize", 5},
	{"Consolation Prize", 10},
}

var seedNames = []string{
	"Nguyễn Văn An", "Trần Thị Bình", "Lê Hoàng Cường", "Phạm Minh Đức", "Hoàng Thu Hà",
	"Vũ Quốc Huy", "Đặng Thị Lan", "Bùi Văn Long", "Đỗ Thanh Mai", "Hồ Quang Nam",
	"Ngô Thị Oanh", "Dương Văn Phúc", "Lý Thị Quyên", "Trịnh Công Sơn", "Mai Anh Tuấn",
	"Đinh Thị Uyên", "Phan Văn Việt", "Tô Thị Xuân", "Châu Minh Yến", "Lâm Gia Khánh",
}

// Seed wipes the sample event and recreates it live with attendees and prizes
func Seed(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()
	defer eventBus.Wait()

	services := NewServices(cfg, repository.NewUnitOfWorkFactory(db, eventBus), nil)
	return seed(ctx, services.Events, services.Prizes, services.CheckIn)
}

type seedEvents interface {
	ListEvents(ctx context.Context) ([]*models.EventWithStats, error)
	CreateEvent(ctx context.Context, name, code string) (*models.Event, error)
	UpdateEvent(ctx context.Context, eventID int64, name *string, status *models.EventStatus) (*models.Event, error)
	DeleteEvent(ctx context.Context, eventID int64) error
}

type seedPrizeCreator interface {
	CreatePrize(ctx context.Context, eventID int64, name string, quantity, displayOrder int) (*models.Prize, error)
}

type seedCheckIn interface {
	CheckIn(ctx context.Context, req models.CheckInRequest) (*models.CheckInResult, error)
}

func seed(ctx context.Context, eventSvc seedEvents, prizeSvc seedPrizeCreator, checkInSvc seedCheckIn) error {
	existing, err := eventSvc.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	for _, e := range existing {
		if e.Code == seedEventCode {
			if err := eventSvc.DeleteEvent(ctx, e.ID); err != nil {
				return fmt.Errorf("failed to delete previous seed event: %w", err)
			}
			log.WithField("eventID", e.ID).Info("Deleted previous seed event")
		}
	}

	event, err := eventSvc.CreateEvent(ctx, "Year End Party 2026", seedEventCode)
	if err != nil {
		return fmt.Errorf("failed to create seed event: %w", err)
	}

	live := models.EventStatusLive
	if _, err := eventSvc.UpdateEvent(ctx, event.ID, nil, &live); err != nil {
		return fmt.Errorf("failed to open seed event: %w", err)
	}

	for i, p := range seedPrizes {
		if _, err := prizeSvc.CreatePrize(ctx, event.ID, p.name, p.quantity, i+1); err != nil {
			return fmt.Errorf("failed to create prize %s: %w", p.name, err)
		}
	}

	for i, name := range seedNames {
		_, err := checkInSvc.CheckIn(ctx, models.CheckInRequest{
			EventCode:   seedEventCode,
			FullName:    name,
			Department:  seedDepartments[i%len(seedDepartments)],
			PhoneNumber: fmt.Sprintf("09%08d", i+1),
		})
		if err != nil {
			return fmt.Errorf("failed to check in %s: %w", name, err)
		}
	}

	log.WithFields(log.Fields{
		"eventID":   event.ID,
		"code":      seedEventCode,
		"attendees": len(seedNames),
		"prizes":    len(seedPrizes),
	}).Info("Seeded sample event")
	return nil
}
