package seed

import (
	"context"
	"time"

	"verdura/auth"
	"verdura/config"
	"verdura/db"
	"verdura/models"
	"verdura/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
)

// Run seeds the documents a fresh deployment needs: a default admin, the
// storefront's static pages, and the minimum order value. Every step is
// idempotent; existing documents are left alone.
func Run(ctx context.Context, m *db.Mongo, cfg *config.Config) error {
	if err := seedAdmin(ctx, m, cfg); err != nil {
		return err
	}
	if err := seedContent(ctx, m); err != nil {
		return err
	}
	return seedSettings(ctx, m)
}

func seedAdmin(ctx context.Context, m *db.Mongo, cfg *config.Config) error {
	count, err := m.Admins.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := models.Admin{
		AdminID:      utils.GenerateID(14),
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hashed,
		CreatedAt:    time.Now(),
	}
	if _, err := m.Admins.InsertOne(ctx, admin); err != nil {
		return err
	}
	logrus.WithField("username", admin.Username).Info("seeded default admin")
	return nil
}

func seedContent(ctx context.Context, m *db.Mongo) error {
	defaults := []models.Content{
		{
			Page:    "home",
			Section: "hero",
			Title:   "Fresh from the farm",
			Content: "Seasonal produce delivered to your door.",
			Order:   0,
		},
		{
			Page:    "about",
			Section: "main",
			Title:   "About us",
			Content: "We work directly with local growers.",
			Order:   0,
		},
		{
			Page:    "delivery",
			Section: "main",
			Title:   "Delivery information",
			Content: "Orders placed before noon ship the same day.",
			Order:   0,
		},
	}

	for _, block := range defaults {
		count, err := m.Content.CountDocuments(ctx, bson.M{"page": block.Page, "section": block.Section})
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		block.ContentID = utils.GenerateID(14)
		block.UpdatedAt = time.Now()
		if _, err := m.Content.InsertOne(ctx, block); err != nil {
			return err
		}
		logrus.WithField("page", block.Page).Info("seeded content page")
	}
	return nil
}

func seedSettings(ctx context.Context, m *db.Mongo) error {
	count, err := m.Settings.CountDocuments(ctx, bson.M{"key": "minimum_order_value"})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	setting := models.SystemSetting{
		Key:         "minimum_order_value",
		Value:       500,
		Description: "Orders below this total are rejected at checkout",
		UpdatedAt:   time.Now(),
	}
	if _, err := m.Settings.InsertOne(ctx, setting); err != nil {
		return err
	}
	logrus.Info("seeded minimum order value")
	return nil
}
