// Package seed loads a small demo workspace so a fresh install has
// something to click through.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/lancekit/lancekit/internal/client/domain"
	expensedomain "github.com/lancekit/lancekit/internal/expense/domain"
	invoicedomain "github.com/lancekit/lancekit/internal/invoice/domain"
	projectdomain "github.com/lancekit/lancekit/internal/project/domain"
	taskdomain "github.com/lancekit/lancekit/internal/task/domain"
	timeentrydomain "github.com/lancekit/lancekit/internal/timeentry/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const demoClientEmail = "hello@acme.example"

// EnsureDemoData seeds the demo client, project and surrounding records.
// Idempotent: a second boot finds the demo client and does nothing.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing clientdomain.Client
		err := tx.Where("email = ?", demoClientEmail).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now().UTC()
		client := clientdomain.Client{
			ID:        node.Generate(),
			Name:      "Acme Corp",
			Company:   "Acme Corporation",
			Email:     demoClientEmail,
			Phone:     "+1 555 0100",
			Status:    clientdomain.ClientStatusActive,
			Tags:      datatypes.NewJSONSlice([]string{"retainer"}),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&client).Error; err != nil {
			return err
		}

		start := now.AddDate(0, -1, 0)
		project := projectdomain.Project{
			ID:          node.Generate(),
			Name:        "Website Redesign",
			ClientID:    client.ID,
			Status:      projectdomain.ProjectStatusInProgress,
			StartDate:   &start,
			Budget:      12000,
			Progress:    40,
			Description: "Marketing site rebuild with a new design system.",
			Tags:        datatypes.NewJSONSlice([]string{"web"}),
			HourlyRate:  100,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		task := taskdomain.Task{
			ID:        node.Generate(),
			Title:     "Wireframes for landing page",
			ProjectID: project.ID,
			Status:    taskdomain.TaskStatusInProgress,
			Priority:  taskdomain.TaskPriorityHigh,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		entry := timeentrydomain.TimeEntry{
			ID:          node.Generate(),
			ProjectID:   project.ID,
			Date:        now.AddDate(0, 0, -2).Truncate(24 * time.Hour),
			StartTime:   "09:00",
			EndTime:     "12:30",
			Duration:    3.5,
			Description: "Work on Website Redesign",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		expense := expensedomain.Expense{
			ID:          node.Generate(),
			ProjectID:   project.ID,
			Date:        now.AddDate(0, 0, -3).Truncate(24 * time.Hour),
			Amount:      49.99,
			Category:    expensedomain.CategorySoftware,
			Description: "Design tool subscription",
			Billable:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}

		seq := invoicedomain.InvoiceSequence{Year: now.Year(), Seq: 0, UpdatedAt: now}
		return tx.Where(invoicedomain.InvoiceSequence{Year: now.Year()}).FirstOrCreate(&seq).Error
	})
}
