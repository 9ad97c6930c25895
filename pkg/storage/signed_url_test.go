package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDownloadSignerSignAndVerify(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Hour)
	token, expiresAt, err := signer.Sign("doc-1", "2026/barangay-clearance-BH-DOC-2026-0001.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	requestID, filename, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "doc-1", requestID)
	require.Equal(t, "2026/barangay-clearance-BH-DOC-2026-0001.pdf", filename)
}

func TestDownloadSignerExpired(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Millisecond*10)
	token, _, err := signer.Sign("doc-1", "file.pdf")
	require.NoError(t, err)
	time.Sleep(time.Millisecond * 20)

	_, _, err = signer.Verify(token)
	require.Error(t, err)
}

func TestDownloadSignerRejectsTampering(t *testing.T) {
	signer := NewDownloadSigner("secret", time.Hour)
	token, _, err := signer.Sign("doc-1", "file.pdf")
	require.NoError(t, err)

	_, _, err = signer.Verify("doc-2" + token[5:])
	require.Error(t, err)
}
