package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWithComponent_EtiquetaElSubsistema(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{zl: zerolog.New(&buf)}

	l.WithComponent("alertas").Info().Msg("barrido")

	assert.Contains(t, buf.String(), `"component":"alertas"`)
	assert.Contains(t, buf.String(), `"message":"barrido"`)
}

func TestParseLevel_DesconocidoCaeEnInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verboso"))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
}
