package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/common"
)

const dateLayout = "2006-01-02"

// Capture prompts for the fields of one artifact kind and queues it locally.
func (a *App) Capture(ctx context.Context, what string) error {
	var (
		art *models.Artifact
		err error
	)

	switch what {
	case "photo", "video", "media":
		art, err = a.capturePhoto(ctx)
	case "note":
		art, err = a.captureNote(ctx)
	case "task":
		art, err = a.captureTask(ctx)
	case "checklist":
		art, err = a.captureChecklist(ctx)
	default:
		return fmt.Errorf("%w: %q", common.ErrUnknownKind, what)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Queued %s %s\n", art.Kind(), art.ID)
	return nil
}

func (a *App) askTarget() (*string, error) {
	id, err := GetSimpleText(a.reader, "Project id (empty for none):", a.out)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}
	return &id, nil
}

// detectMime prefers the file extension and falls back to content sniffing.
func detectMime(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

// parseGeo accepts "lat,lon" or "lat,lon,name".
func parseGeo(s string) (*models.Geo, error) {
	parts := strings.SplitN(s, ",", 3)
	if len(parts) < 2 {
		return nil, errors.New("location must be lat,lon[,name]")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	g := &models.Geo{Latitude: lat, Longitude: lon}
	if len(parts) == 3 {
		g.LocationName = strings.TrimSpace(parts[2])
	}
	return g, nil
}

func (a *App) capturePhoto(ctx context.Context) (*models.Artifact, error) {
	path, err := GetSimpleText(a.reader, "File path:", a.out)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m := models.Media{
		Data:     data,
		MimeType: detectMime(path, data),
		Type:     models.MediaPhoto,
		Size:     int64(len(data)),
	}
	if strings.HasPrefix(m.MimeType, "video/") {
		m.Type = models.MediaVideo
	}
	if fi, err := os.Stat(path); err == nil {
		t := fi.ModTime().UTC()
		m.CapturedAt = &t
	}

	if m.Caption, err = GetSimpleText(a.reader, "Caption (optional):", a.out); err != nil {
		return nil, err
	}

	loc, err := GetSimpleText(a.reader, "Location lat,lon[,name] (optional):", a.out)
	if err != nil {
		return nil, err
	}
	if loc != "" {
		if m.Location, err = parseGeo(loc); err != nil {
			return nil, err
		}
	}

	target, err := a.askTarget()
	if err != nil {
		return nil, err
	}
	return a.queue.QueueMedia(ctx, target, m)
}

func (a *App) captureNote(ctx context.Context) (*models.Artifact, error) {
	text, err := GetMultiline(a.reader, "Note text:", a.out)
	if err != nil {
		return nil, err
	}
	n := models.Note{Text: text}

	audio, err := GetSimpleText(a.reader, "Voice recording path (optional):", a.out)
	if err != nil {
		return nil, err
	}
	if audio != "" {
		if n.Audio, err = os.ReadFile(audio); err != nil {
			return nil, err
		}
		n.AudioMimeType = detectMime(audio, n.Audio)
	}

	target, err := a.askTarget()
	if err != nil {
		return nil, err
	}
	return a.queue.QueueNote(ctx, target, n)
}

func (a *App) captureTask(ctx context.Context) (*models.Artifact, error) {
	var (
		t   models.Task
		err error
	)
	if t.Title, err = GetSimpleText(a.reader, "Title:", a.out); err != nil {
		return nil, err
	}
	if t.Description, err = GetMultiline(a.reader, "Description:", a.out); err != nil {
		return nil, err
	}

	prio, err := GetSimpleText(a.reader, "Priority low|medium|high|urgent (default medium):", a.out)
	if err != nil {
		return nil, err
	}
	t.Priority = models.ParsePriority(prio)

	due, err := GetSimpleText(a.reader, "Due date YYYY-MM-DD (optional):", a.out)
	if err != nil {
		return nil, err
	}
	if due != "" {
		d, err := time.Parse(dateLayout, due)
		if err != nil {
			return nil, fmt.Errorf("due date: %w", err)
		}
		t.DueDate = &d
	}

	target, err := a.askTarget()
	if err != nil {
		return nil, err
	}
	return a.queue.QueueTask(ctx, target, t)
}

// parseChecklistRow reads "text | priority | category"; only text is required.
// A leading "[x]" marks the row completed.
func parseChecklistRow(line string) models.ChecklistItem {
	parts := strings.Split(line, "|")
	item := models.ChecklistItem{Text: strings.TrimSpace(parts[0])}
	if rest, ok := strings.CutPrefix(item.Text, "[x]"); ok {
		item.Text = strings.TrimSpace(rest)
		item.Completed = true
	}
	if len(parts) > 1 {
		item.Priority = models.ParsePriority(parts[1])
	}
	if len(parts) > 2 {
		item.Category = strings.TrimSpace(parts[2])
	}
	return item
}

func (a *App) captureChecklist(ctx context.Context) (*models.Artifact, error) {
	title, err := GetSimpleText(a.reader, "Title:", a.out)
	if err != nil {
		return nil, err
	}
	rows, err := GetLines(a.reader, "Rows as: text | priority | category", a.out)
	if err != nil {
		return nil, err
	}

	c := models.Checklist{Title: title, Items: make([]models.ChecklistItem, 0, len(rows))}
	for _, r := range rows {
		if strings.TrimSpace(r) == "" {
			continue
		}
		c.Items = append(c.Items, parseChecklistRow(r))
	}

	target, err := a.askTarget()
	if err != nil {
		return nil, err
	}
	return a.queue.QueueChecklist(ctx, target, c)
}

// describe renders a one-line summary of a payload.
func describe(p models.Payload) string {
	if m, ok := models.PayloadAs[models.Media](p); ok {
		s := fmt.Sprintf("%s %s %d bytes", m.Type, m.MimeType, m.Size)
		if m.Caption != "" {
			s += " " + strconv.Quote(m.Caption)
		}
		return s
	}
	if n, ok := models.PayloadAs[models.Note](p); ok {
		s := firstLine(n.Text)
		if len(n.Audio) > 0 {
			s += " (+audio)"
		}
		return s
	}
	if t, ok := models.PayloadAs[models.Task](p); ok {
		s := fmt.Sprintf("[%s] %s", t.Priority, t.Title)
		if t.DueDate != nil {
			s += " due " + t.DueDate.Format(dateLayout)
		}
		return s
	}
	if c, ok := models.PayloadAs[models.Checklist](p); ok {
		return fmt.Sprintf("%s (%d rows)", c.Title, len(c.Items))
	}
	return ""
}

func firstLine(s string) string {
	line, _, more := strings.Cut(s, "\n")
	if more {
		return line + " ..."
	}
	return line
}

// List prints queued artifacts of one kind, or of every kind when kind is empty.
func (a *App) List(ctx context.Context, kind string) error {
	kinds := models.Kinds
	if kind != "" {
		k, err := models.ParseKind(kind)
		if err != nil {
			return err
		}
		kinds = []models.Kind{k}
	}

	n := 0
	for _, k := range kinds {
		items, err := a.queue.List(ctx, k)
		if err != nil {
			return err
		}
		for _, it := range items {
			fmt.Fprintf(a.out, "%s  %-10s  %s  %s\n",
				it.ID, k, it.CreatedAt.Local().Format("2006-01-02 15:04"), describe(it.Payload))
			n++
		}
	}
	if n == 0 {
		fmt.Fprintln(a.out, "Queue is empty")
	}
	return nil
}

// Discard removes a queued artifact without syncing it.
func (a *App) Discard(ctx context.Context, kind, id string) error {
	k, err := models.ParseKind(kind)
	if err != nil {
		return err
	}
	if err := a.queue.Discard(ctx, k, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Discarded", id)
	return nil
}

// Status prints pending counts, connectivity and the sync state.
func (a *App) Status(ctx context.Context) error {
	counts, err := a.queue.PendingCounts(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Pending: %d media, %d notes, %d tasks, %d checklists (%d total)\n",
		counts.Media, counts.Notes, counts.Tasks, counts.Checklists, counts.Total())
	fmt.Fprintf(a.out, "Connectivity: %s\n", a.monitor.State())
	fmt.Fprintf(a.out, "Auto-sync: %s\n", a.trigger.State())

	owner, err := a.session.OwnerID()
	if err == nil {
		_, err = a.session.Valid()
	}
	if err != nil {
		fmt.Fprintf(a.out, "Session: %v\n", err)
	} else {
		fmt.Fprintf(a.out, "Signed in as %s\n", owner)
	}
	return nil
}

// Sync runs one sync pass now. It is refused while the client is offline.
func (a *App) Sync(ctx context.Context) error {
	if a.monitor.EffectivelyOffline() {
		if a.monitor.ForcedOffline() {
			fmt.Fprintln(a.out, "Forced offline is on; captures stay queued. Use 'offline off' to sync.")
		} else {
			fmt.Fprintln(a.out, "Backend unreachable; captures stay queued and sync after reconnect.")
		}
		return nil
	}

	// The final summary is printed by the progress listener.
	_, err := a.sync.Run(ctx)
	if errors.Is(err, common.ErrSyncInProgress) {
		fmt.Fprintln(a.out, "A sync is already running")
		return nil
	}
	return err
}

// SetOffline toggles the persisted forced-offline preference.
func (a *App) SetOffline(ctx context.Context, on bool) error {
	if err := a.monitor.SetForcedOffline(ctx, on); err != nil {
		return err
	}
	if on {
		fmt.Fprintln(a.out, "Forced offline: captures stay local")
	} else {
		fmt.Fprintln(a.out, "Forced offline disabled")
	}
	return nil
}

// Login asks for an access token and stores it for later runs.
func (a *App) Login(ctx context.Context) error {
	token, err := GetSecret(a.reader, "Access token", a.out)
	if err != nil {
		return err
	}
	if err := a.session.Login(ctx, token); err != nil {
		return err
	}
	owner, _ := a.session.OwnerID()
	fmt.Fprintf(a.out, "Logged in as %s\n", owner)
	return nil
}

// Logout forgets the stored token. Queued captures are kept.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
