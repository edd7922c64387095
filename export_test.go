package cinegrade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExportPrefersFullResolution(t *testing.T) {
	s := NewScheduler()
	s.SetSource(testAsset(8, 8)) // full buffer is 16x16
	s.Wait()

	out, err := s.Export(context.Background(), ExportOptions{})
	require.NoError(t, err)
	require.Equal(t, 16, out.W)
	require.Equal(t, 16, out.H)
}

func TestExportFromRawWinsOverFull(t *testing.T) {
	asset := testAsset(8, 8)
	asset.DevelopRaw = func() (*Image, error) {
		return grayImage(32, 32, 0.5), nil
	}
	s := NewScheduler()
	s.SetSource(asset)
	s.Wait()

	out, err := s.Export(context.Background(), ExportOptions{FromRaw: true})
	require.NoError(t, err)
	require.Equal(t, 32, out.W)

	// Without FromRaw the developer must not even run.
	asset.DevelopRaw = func() (*Image, error) {
		t.Fatal("raw developer invoked without FromRaw")
		return nil, nil
	}
	s.SetSource(asset)
	s.Wait()
	out, err = s.Export(context.Background(), ExportOptions{})
	require.NoError(t, err)
	require.Equal(t, 16, out.W)
}

func TestExportRawFailureDegradesToFull(t *testing.T) {
	asset := testAsset(8, 8)
	asset.DevelopRaw = func() (*Image, error) {
		return nil, errors.New("corrupt payload")
	}
	s := NewScheduler()
	s.SetSource(asset)
	s.Wait()

	out, err := s.Export(context.Background(), ExportOptions{FromRaw: true})
	require.NoError(t, err, "raw failure must degrade, not fail the export")
	require.Equal(t, 16, out.W)
}

func TestExportFallsBackToPreview(t *testing.T) {
	asset := &SourceAsset{ID: "preview-only", Preview: grayImage(6, 6, 0.5)}
	s := NewScheduler()
	s.SetSource(asset)
	s.Wait()

	out, err := s.Export(context.Background(), ExportOptions{})
	require.NoError(t, err)
	require.Equal(t, 6, out.W)
}

func TestExportNoSource(t *testing.T) {
	s := NewScheduler()
	_, err := s.Export(context.Background(), ExportOptions{})
	require.ErrorIs(t, err, ErrNoExportSource)
}

func TestExportReusesLastRenderWhenSourceLost(t *testing.T) {
	s := NewScheduler()
	s.SetSource(testAsset(8, 8))
	s.Wait()
	first, err := s.Export(context.Background(), ExportOptions{})
	require.NoError(t, err)

	// Simulate a dropped source: a nil asset leaves only the fallback.
	s.SetSource(nil)
	s.Wait()
	again, err := s.Export(context.Background(), ExportOptions{})
	require.NoError(t, err)
	require.Same(t, first, again, "must reuse the previous full render")
}

func TestExportHonorsContextCancellation(t *testing.T) {
	s := NewScheduler()
	s.SetSource(testAsset(8, 8))
	s.Wait()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Export(ctx, ExportOptions{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestExportUsesLiveEditState(t *testing.T) {
	s := NewScheduler()
	s.SetSource(testAsset(8, 8))
	s.SetAdjustments(1, 0, 0, 0)
	s.Wait()

	out, err := s.Export(context.Background(), ExportOptions{})
	require.NoError(t, err)
	r, _, _, _ := out.at(0, 0)
	require.InDelta(t, 1.0, r, 1e-5, "exposure +1 stop doubles 0.5 gray")
}

func TestExportAsyncDeliversResult(t *testing.T) {
	s := NewScheduler()
	s.SetSource(testAsset(8, 8))
	s.Wait()

	select {
	case res := <-s.ExportAsync(context.Background(), ExportOptions{Quality: 83}):
		require.NoError(t, res.Err)
		require.NotNil(t, res.Image)
		require.Equal(t, 85, res.Quality)
	case <-time.After(5 * time.Second):
		t.Fatal("async export never delivered")
	}
}
