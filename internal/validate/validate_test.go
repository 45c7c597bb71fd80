package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraph(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "full payload",
			raw: `{"nodes":[{"id":"A","label":"X","active":true,"x":19.9,"y":50.0},{"id":"B","label":"Y","active":false,"x":null,"y":null}],
			       "edges":[{"from":"A","to":"B","label":"3","weight":3}]}`,
		},
		{name: "empty network", raw: `{"nodes":[],"edges":[]}`},
		{name: "missing edges", raw: `{"nodes":[]}`, wantErr: true},
		{name: "numeric id", raw: `{"nodes":[{"id":7,"label":"X"}],"edges":[]}`, wantErr: true},
		{name: "edge without target", raw: `{"nodes":[],"edges":[{"from":"A"}]}`, wantErr: true},
		{name: "string position", raw: `{"nodes":[{"id":"A","label":"X","x":"left"}],"edges":[]}`, wantErr: true},
		{name: "null data", raw: `null`, wantErr: true},
		{name: "not json", raw: `{"nodes":`, wantErr: true},
		{name: "no data", raw: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Graph([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
