package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo bundles the client and the storefront collections. It is constructed
// once at startup and handed to the handlers that need it; the client is
// closed when the process shuts down.
type Mongo struct {
	Client *mongo.Client

	Admins      *mongo.Collection
	Users       *mongo.Collection
	Categories  *mongo.Collection
	Products    *mongo.Collection
	Orders      *mongo.Collection
	Content     *mongo.Collection
	ContactInfo *mongo.Collection
	Recipes     *mongo.Collection
	Settings    *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	d := client.Database(dbName)
	return &Mongo{
		Client:      client,
		Admins:      d.Collection("admins"),
		Users:       d.Collection("users"),
		Categories:  d.Collection("categories"),
		Products:    d.Collection("products"),
		Orders:      d.Collection("orders"),
		Content:     d.Collection("content"),
		ContactInfo: d.Collection("contact_info"),
		Recipes:     d.Collection("recipes"),
		Settings:    d.Collection("system_settings"),
	}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
