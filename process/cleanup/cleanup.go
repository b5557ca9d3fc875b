package cleanup

import (
	"flag"
	"fmt"
	"log"
	"os"

	"vidtube/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type sweep struct {
	label string
	model interface{}
	cond  string
	args  []interface{}
}

// Run executes the orphan-cleanup CLI behavior. Exported so a small cmd/main
// can call it.
//
// Rows in the relationship tables reference their targets by id without
// database-level foreign keys, so deleting a video, comment, tweet or user
// can leave edges, playlist entries and watch events pointing at nothing.
// This sweep finds and removes them.
func Run() {
	var (
		dryRun = flag.Bool("dry-run", true, "Don't delete anything; show what would be removed")
		yes    = flag.Bool("yes", false, "Confirm destructive action (required to actually delete)")
	)
	flag.Parse()

	gdb := mustInitDBFromEnv()

	sweeps := []sweep{
		{"video likes with no video", &models.Edge{},
			"kind = ? AND target_id NOT IN (SELECT id FROM videos)", []interface{}{models.EdgeLikeVideo}},
		{"comment likes with no comment", &models.Edge{},
			"kind = ? AND target_id NOT IN (SELECT id FROM comments)", []interface{}{models.EdgeLikeComment}},
		{"tweet likes with no tweet", &models.Edge{},
			"kind = ? AND target_id NOT IN (SELECT id FROM tweets)", []interface{}{models.EdgeLikeTweet}},
		{"subscriptions with no channel", &models.Edge{},
			"kind = ? AND target_id NOT IN (SELECT id FROM users)", []interface{}{models.EdgeSubscription}},
		{"edges with no actor", &models.Edge{},
			"actor_id NOT IN (SELECT id FROM users)", nil},
		{"comments on deleted videos", &models.Comment{},
			"video_id NOT IN (SELECT id FROM videos)", nil},
		{"playlist entries for deleted videos", &models.PlaylistVideo{},
			"video_id NOT IN (SELECT id FROM videos)", nil},
		{"watch events for deleted videos", &models.WatchEvent{},
			"video_id NOT IN (SELECT id FROM videos)", nil},
	}

	total := int64(0)
	for _, s := range sweeps {
		var n int64
		if err := gdb.Model(s.model).Where(s.cond, s.args...).Count(&n).Error; err != nil {
			log.Fatalf("count %s: %v", s.label, err)
		}
		fmt.Printf(" - %s: %d\n", s.label, n)
		total += n
	}
	if total == 0 {
		fmt.Println("no orphaned rows found; nothing to do")
		return
	}

	if *dryRun {
		fmt.Println("dry-run enabled; no changes will be made. Use --dry-run=false --yes to execute.")
		return
	}
	if !*yes {
		fmt.Println("Destructive operation. Pass --yes to confirm execution. Aborting.")
		return
	}

	deleted := int64(0)
	for _, s := range sweeps {
		res := gdb.Where(s.cond, s.args...).Delete(s.model)
		if res.Error != nil {
			log.Fatalf("delete %s: %v", s.label, res.Error)
		}
		deleted += res.RowsAffected
	}
	log.Printf("cleanup done: %d rows removed", deleted)
}

// mustInitDBFromEnv is a light DB initializer used by this CLI.
func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}
