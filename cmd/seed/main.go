package main

import (
	"flag"
	"log"

	"lets/internal/config"
	"lets/internal/database"
	"lets/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "number of users to create")
	flag.IntVar(&opts.PostsPerUser, "posts", opts.PostsPerUser, "posts per user")
	flag.IntVar(&opts.CommentsPerPost, "comments", opts.CommentsPerPost, "comments per post")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Printf("seeded %d users, %d posts per user", opts.Users, opts.PostsPerUser)
}
