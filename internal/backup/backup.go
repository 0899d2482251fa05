// Package backup exports the local queue and submission store to a portable
// archive and restores from one. Archives are gzipped tarballs of JSON
// documents plus a manifest with per-file checksums, optionally encrypted
// with AES-256-GCM.
package backup

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/harvestlane/contactsync/internal/db"
	"github.com/harvestlane/contactsync/internal/logging"
	"github.com/harvestlane/contactsync/internal/models"
)

const (
	manifestFile    = "manifest.json"
	pendingFile     = "pending.json"
	submissionsFile = "submissions.json"

	formatVersion = "1.0"
)

// Manifest describes an archive's contents. Checksums are SHA-256 over each
// member file, verified on open.
type Manifest struct {
	Version         string            `json:"version"`
	ExportedAt      time.Time         `json:"exported_at"`
	PendingCount    int               `json:"pending_count"`
	SubmissionCount int               `json:"submission_count"`
	Checksums       map[string]string `json:"checksums"`
}

// Archive is the decoded content of a backup file.
type Archive struct {
	Manifest    Manifest
	Pending     []*models.Submission
	Submissions []*models.RemoteSubmission
}

// Service reads and writes backup archives over the local stores.
type Service struct {
	queue *db.QueueStore
	store *db.SubmissionStore
}

// NewService creates a backup Service. store may be nil when only the client
// queue exists on this machine.
func NewService(queue *db.QueueStore, store *db.SubmissionStore) *Service {
	return &Service{queue: queue, store: store}
}

// Export writes the current data to path. An empty password produces a plain
// gzipped tar; otherwise the archive is encrypted.
func (s *Service) Export(path, password string) (*Manifest, error) {
	pending, err := s.queue.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read queue: %w", err)
	}

	var submissions []*models.RemoteSubmission
	if s.store != nil {
		submissions, err = s.store.List()
		if err != nil {
			return nil, fmt.Errorf("failed to read submissions: %w", err)
		}
	}

	pendingData, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		return nil, err
	}
	submissionsData, err := json.MarshalIndent(submissions, "", "  ")
	if err != nil {
		return nil, err
	}

	manifest := Manifest{
		Version:         formatVersion,
		ExportedAt:      time.Now().UTC(),
		PendingCount:    len(pending),
		SubmissionCount: len(submissions),
		Checksums: map[string]string{
			pendingFile:     checksum(pendingData),
			submissionsFile: checksum(submissionsData),
		},
	}
	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, member := range []struct {
		name string
		data []byte
	}{
		{manifestFile, manifestData},
		{pendingFile, pendingData},
		{submissionsFile, submissionsData},
	} {
		if err := writeMember(tw, member.name, member.data); err != nil {
			return nil, err
		}
	}
	if err := tw.Close(); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}

	payload := buf.Bytes()
	if password != "" {
		payload, err = Encrypt(payload, password)
		if err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, payload, 0600); err != nil {
		return nil, fmt.Errorf("failed to write archive: %w", err)
	}

	logging.Info("backup written", map[string]interface{}{
		"path":        path,
		"pending":     manifest.PendingCount,
		"submissions": manifest.SubmissionCount,
		"encrypted":   password != "",
	})
	return &manifest, nil
}

// Open reads and verifies an archive. The password is required only for
// encrypted archives.
func Open(path, password string) (*Archive, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	if IsEncrypted(payload) {
		if password == "" {
			return nil, fmt.Errorf("%w: archive is encrypted, password required", ErrInvalidPassword)
		}
		payload, err = Decrypt(payload, password)
		if err != nil {
			return nil, err
		}
	}

	gz, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer gz.Close()

	members := make(map[string][]byte)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
		}
		members[hdr.Name] = data
	}

	manifestData, ok := members[manifestFile]
	if !ok {
		return nil, fmt.Errorf("%w: missing manifest", ErrInvalidArchive)
	}

	var archive Archive
	if err := json.Unmarshal(manifestData, &archive.Manifest); err != nil {
		return nil, fmt.Errorf("%w: bad manifest: %v", ErrInvalidArchive, err)
	}

	for name, want := range archive.Manifest.Checksums {
		data, ok := members[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing member %s", ErrInvalidArchive, name)
		}
		if got := checksum(data); got != want {
			return nil, fmt.Errorf("%w: checksum mismatch for %s", ErrInvalidArchive, name)
		}
	}

	if err := json.Unmarshal(members[pendingFile], &archive.Pending); err != nil {
		return nil, fmt.Errorf("%w: bad pending data: %v", ErrInvalidArchive, err)
	}
	if err := json.Unmarshal(members[submissionsFile], &archive.Submissions); err != nil {
		return nil, fmt.Errorf("%w: bad submission data: %v", ErrInvalidArchive, err)
	}
	return &archive, nil
}

// RestorePending re-enqueues an archive's pending records into the local
// queue. Records receive fresh queue ids; original timestamps are kept so
// sync ordering is preserved.
func (s *Service) RestorePending(archive *Archive) (int, error) {
	restored := 0
	for _, sub := range archive.Pending {
		record := &models.Submission{
			Name:               sub.Name,
			Email:              sub.Email,
			Phone:              sub.Phone,
			Message:            sub.Message,
			InterestedProducts: sub.InterestedProducts,
			CreatedAt:          sub.CreatedAt,
		}
		if _, err := s.queue.Enqueue(record); err != nil {
			return restored, fmt.Errorf("failed to restore record: %w", err)
		}
		restored++
	}
	return restored, nil
}

func writeMember(tw *tar.Writer, name string, data []byte) error {
	if err := tw.WriteHeader(&tar.Header{
		Name: name,
		Mode: 0600,
		Size: int64(len(data)),
	}); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
