package mongodb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

func TestIsConnectionError(t *testing.T) {
	selection := topology.ServerSelectionError{Wrapped: errors.New("no reachable servers")}

	assert.True(t, IsConnectionError(selection))
	assert.True(t, IsConnectionError(fmt.Errorf("failed to list products: %w", selection)))
	assert.False(t, IsConnectionError(nil))
	assert.False(t, IsConnectionError(errors.New("boom")))
	assert.False(t, IsConnectionError(mongo.ErrNoDocuments))
}

func TestReportErrorMarksDisconnected(t *testing.T) {
	db := &DB{}
	db.connected.Store(true)

	db.ReportError(errors.New("validation"))
	assert.True(t, db.Connected())

	db.ReportError(topology.ServerSelectionError{Wrapped: errors.New("timeout")})
	assert.False(t, db.Connected())
}
