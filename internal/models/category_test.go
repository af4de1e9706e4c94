package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		name, symbol string
		want         Category
	}{
		{"Shiba Moon", "SHM", CategoryMeme},
		{"PEPE 2.0", "PEPE2", CategoryMeme},
		{"UniSwap Clone", "USC", CategoryDeFi},
		{"Yield Farmer", "YLD", CategoryDeFi},
		{"Metaverse Realms", "MVR", CategoryGaming},
		{"PlayToEarn", "P2E", CategoryGaming},
		{"Oracle Network", "ORC", CategoryUtility},
		{"", "", CategoryUtility},
		{"   ", "", CategoryUtility},
		// meme wins over defi when both match
		{"Doge Swap", "DSW", CategoryMeme},
		// the symbol never classifies
		{"Token", "DOGX", CategoryUtility},
		{"", "PEPE", CategoryUtility},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCategory(tt.name))
		})
	}
}

func TestDetectCategory_Deterministic(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Equal(t, CategoryDeFi, DetectCategory("StakeDAO Finance"))
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" MEME ")
	assert.True(t, ok)
	assert.Equal(t, CategoryMeme, c)

	_, ok = ParseCategory("nft")
	assert.False(t, ok)
}

func TestResolveChain(t *testing.T) {
	assert.Equal(t, "ethereum", ResolveChain("ETH"))
	assert.Equal(t, "solana", ResolveChain("sol"))
	assert.Equal(t, "bsc", ResolveChain("bnb"))
	assert.Equal(t, "sui", ResolveChain(" Sui "))
}
