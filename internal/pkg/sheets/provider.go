package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cmlabs-hris/timesheet-portal/internal/domain/attendance"
	"github.com/cmlabs-hris/timesheet-portal/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-portal/internal/pkg/oauth"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

type Config struct {
	// SpreadsheetID pins the spreadsheet. When empty it is looked up by Title.
	SpreadsheetID string
	Title         string
	SheetName     string
	// ShareWith receives writer access to a newly created spreadsheet.
	ShareWith string
}

// Provider opens a Store with the caller's credential. The spreadsheet ID is
// resolved once, creating the spreadsheet if no file with the title exists.
type Provider struct {
	cfg Config

	mu         sync.Mutex
	resolvedID string

	sheetsOptions []option.ClientOption
	driveOptions  []option.ClientOption
}

var _ attendance.RecordStoreProvider = (*Provider)(nil)

func NewProvider(cfg Config) *Provider {
	if cfg.SheetName == "" {
		cfg.SheetName = "Sheet1"
	}
	return &Provider{cfg: cfg, resolvedID: cfg.SpreadsheetID}
}

func (p *Provider) Open(ctx context.Context, cred auth.Credential) (attendance.RecordStore, error) {
	ts := option.WithTokenSource(oauth.TokenSource(cred))

	svc, err := sheets.NewService(ctx, append([]option.ClientOption{ts}, p.sheetsOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	id, err := p.spreadsheetID(ctx, svc, ts)
	if err != nil {
		return nil, err
	}
	return NewStore(svc, id, p.cfg.SheetName), nil
}

func (p *Provider) spreadsheetID(ctx context.Context, svc *sheets.Service, ts option.ClientOption) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.resolvedID != "" {
		return p.resolvedID, nil
	}

	driveSvc, err := drive.NewService(ctx, append([]option.ClientOption{ts}, p.driveOptions...)...)
	if err != nil {
		return "", fmt.Errorf("create drive client: %w", err)
	}

	id, err := p.findByTitle(ctx, driveSvc)
	if err != nil {
		return "", err
	}
	if id == "" {
		id, err = p.create(ctx, svc, driveSvc)
		if err != nil {
			return "", err
		}
	}

	p.resolvedID = id
	return id, nil
}

func (p *Provider) findByTitle(ctx context.Context, driveSvc *drive.Service) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(p.cfg.Title), spreadsheetMimeType)

	list, err := driveSvc.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", classify("find spreadsheet", err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (p *Provider) create(ctx context.Context, svc *sheets.Service, driveSvc *drive.Service) (string, error) {
	created, err := svc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: p.cfg.Title},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: p.cfg.SheetName}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", classify("create spreadsheet", err)
	}

	if err := NewStore(svc, created.SpreadsheetId, p.cfg.SheetName).WriteHeader(ctx); err != nil {
		return "", err
	}
	slog.Info("Created timesheet spreadsheet", "spreadsheet_id", created.SpreadsheetId, "title", p.cfg.Title)

	if p.cfg.ShareWith != "" {
		_, err := driveSvc.Permissions.Create(created.SpreadsheetId, &drive.Permission{
			Type:         "user",
			Role:         "writer",
			EmailAddress: p.cfg.ShareWith,
		}).Context(ctx).Do()
		if err != nil {
			// The spreadsheet is usable without the share.
			slog.Warn("Failed to share timesheet spreadsheet", "spreadsheet_id", created.SpreadsheetId, "share_with", p.cfg.ShareWith, "error", err)
		}
	}

	return created.SpreadsheetId, nil
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `'`, `\'`)
}
