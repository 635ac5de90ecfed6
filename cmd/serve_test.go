package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMenuMapping(t *testing.T) {
	mapping := menuMapping("<leader>rr", 3)

	assert.Contains(t, mapping, "nnoremap <silent> <leader>rr ")
	assert.Contains(t, mapping, "rpcrequest(3, 'refactor.rename'")
	assert.Contains(t, mapping, "input('New name: ')")
}
