package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyhost/protover/internal/protover"
)

func TestPrintList(t *testing.T) {
	entry, err := protover.ParseEntry("Relay=1-2 Link=1-5")
	require.NoError(t, err)

	var line bytes.Buffer
	printList[protover.Protocol](&line, entry)
	assert.Equal(t, "Link=1-5 Relay=1-2\n", line.String())

	asTable = true
	t.Cleanup(func() { asTable = false })

	var table bytes.Buffer
	printList[protover.Protocol](&table, entry)
	out := table.String()
	assert.Contains(t, out, "PROTOCOL")
	assert.Contains(t, out, "Link")
	assert.Contains(t, out, "1-5")
	assert.Less(t, bytes.Index(table.Bytes(), []byte("Link")), bytes.Index(table.Bytes(), []byte("Relay")))
}
