package main

import (
	"context"
	"flag"
	"time"

	"github.com/ti/mongofake/config"
	"github.com/ti/mongofake/dependencies/mongofake"
	"github.com/ti/mongofake/log"
	"go.mongodb.org/mongo-driver/bson"
)

// User is stored through the struct codecs, json tags name the fields.
type User struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func main() {
	configURI := flag.String("config", "docs/tutorial/mongofake/configs/config.yaml", "config uri")
	flag.Parse()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load(ctx, *configURI)
	if err != nil {
		panic(err)
	}
	db, err := mongofake.NewClient(mongofake.WithConfig(cfg)).Connect(ctx)
	if err != nil {
		panic(err)
	}
	users := db.Collection()

	inserted, err := users.InsertMany(ctx, []any{
		&User{Name: "ada", Role: "admin"},
		&User{Name: "bob", Role: "guest"},
		bson.M{"name": "eve", "role": "guest"},
	})
	if err != nil {
		panic(err)
	}
	log.Action("tutorial.insert").Info("inserted %d users", len(inserted.InsertedIDs))

	updated, err := users.UpdateMany(ctx,
		bson.M{"$or": bson.A{bson.M{"role": "guest"}}},
		bson.M{"$set": bson.M{"role": "member"}})
	if err != nil {
		panic(err)
	}
	log.Action("tutorial.update").Info("updated %d users", updated.ModifiedCount)

	cursor, err := users.Find(ctx, bson.M{"$or": bson.A{bson.M{"role": "member"}, bson.M{"name": "ada"}}})
	if err != nil {
		panic(err)
	}
	var found []User
	if err = cursor.All(ctx, &found); err != nil {
		panic(err)
	}
	for _, u := range found {
		log.Action("tutorial.find").With(map[string]any{"id": u.ID}).Info("%s is %s", u.Name, u.Role)
	}
}
