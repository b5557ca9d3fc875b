// Bulk video intake: scans a spool directory (and optionally keeps watching
// it) for video files, pushes file + thumbnail to object storage and creates
// unpublished video rows for a given owner. Dropped videos stay drafts until
// the owner publishes them through the API.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"vidtube/models"
	"vidtube/pkg/media"
	"vidtube/pkg/storage"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const thumbnailMaxDim = 1280

var videoExts = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
}

func main() {
	dir := flag.String("dir", "", "spool directory to ingest from")
	ownerID := flag.Uint("owner", 0, "user id that will own the ingested videos")
	watch := flag.Bool("watch", false, "keep watching the directory after the initial scan")
	workers := flag.Int("workers", 2, "number of upload workers")
	flag.Parse()

	if *dir == "" || *ownerID == 0 {
		log.Fatal("usage: ingest -dir <spool dir> -owner <user id> [-watch] [-workers n]")
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	store, err := storage.NewS3(context.Background(), storage.S3Config{
		Bucket:        os.Getenv("S3_BUCKET"),
		Region:        envOr("S3_REGION", "us-east-1"),
		Endpoint:      os.Getenv("S3_ENDPOINT"),
		AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		SecretKey:     os.Getenv("S3_SECRET_KEY"),
		PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),
	})
	if err != nil {
		log.Fatalf("object storage: %v", err)
	}

	var owner models.User
	if err := db.Select("id", "username").First(&owner, *ownerID).Error; err != nil {
		log.Fatalf("owner %d not found: %v", *ownerID, err)
	}

	ing := &ingester{db: db, store: store, dir: *dir, ownerID: owner.ID}

	fileCh := make(chan string, 256)
	var wg sync.WaitGroup
	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range fileCh {
				ing.ingestOne(name)
			}
		}()
	}

	for _, name := range listVideoFiles(*dir) {
		fileCh <- name
	}

	if *watch {
		if err := watchDirectory(*dir, fileCh); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
	close(fileCh)
	wg.Wait()
}

type ingester struct {
	db      *gorm.DB
	store   storage.Store
	dir     string
	ownerID uint
}

func (g *ingester) ingestOne(name string) {
	fullPath := filepath.Join(g.dir, name)
	title := strings.TrimSuffix(name, filepath.Ext(name))

	// skip files already ingested for this owner
	var cnt int64
	g.db.Model(&models.Video{}).Where("owner_id = ? AND title = ?", g.ownerID, title).Count(&cnt)
	if cnt > 0 {
		log.Printf("skip %s: already ingested", name)
		return
	}

	thumbPath := findThumbnail(g.dir, title)
	if thumbPath == "" {
		log.Printf("skip %s: no thumbnail image next to it", name)
		return
	}
	if err := media.Bound(thumbPath, thumbnailMaxDim); err != nil {
		log.Printf("skip %s: bad thumbnail: %v", name, err)
		return
	}

	ctx := context.Background()
	videoObj, err := g.store.Upload(ctx, fullPath, videoExts[strings.ToLower(filepath.Ext(name))])
	if err != nil {
		log.Printf("upload failed for %s: %v", name, err)
		return
	}
	thumbType := "image/jpeg"
	if strings.EqualFold(filepath.Ext(thumbPath), ".png") {
		thumbType = "image/png"
	}
	thumbObj, err := g.store.Upload(ctx, thumbPath, thumbType)
	if err != nil {
		log.Printf("thumbnail upload failed for %s: %v", name, err)
		_ = g.store.Delete(ctx, videoObj.Key)
		return
	}

	video := models.Video{
		OwnerID:      g.ownerID,
		VideoFile:    videoObj.URL,
		VideoFileKey: videoObj.Key,
		Thumbnail:    thumbObj.URL,
		ThumbnailKey: thumbObj.Key,
		Title:        title,
		Description:  title,
		Published:    false,
	}
	if err := g.db.Create(&video).Error; err != nil {
		log.Printf("db save failed for %s: %v", name, err)
		_ = g.store.Delete(ctx, videoObj.Key)
		_ = g.store.Delete(ctx, thumbObj.Key)
		return
	}
	log.Printf("ingested %s as video id=%d (draft)", name, video.ID)
}

// findThumbnail looks for an image sharing the video's basename.
func findThumbnail(dir, base string) string {
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		p := filepath.Join(dir, base+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func listVideoFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := videoExts[strings.ToLower(filepath.Ext(e.Name()))]; !ok {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out
}

// watchDirectory feeds newly created video files into fileCh, debouncing
// create events so half-written files settle before ingest. Blocks until the
// watcher fails.
func watchDirectory(dir string, fileCh chan<- string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Printf("watching %s (debounced) ...", dir)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				name := filepath.Base(ev.Name)
				if _, isVideo := videoExts[strings.ToLower(filepath.Ext(name))]; isVideo {
					pending[name] = time.Now()
				}
			}
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) > 2*time.Second { // stable
					fileCh <- name
					delete(pending, name)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
