package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCastleRegistry(t *testing.T) {
	r := CastleRegistry()
	assert.NotEmpty(t, r.Commands())

	_, ok := r.Resolve("смешать")
	assert.False(t, ok, "castle must not know horror verbs")
}

func TestResolve_Vocabulary(t *testing.T) {
	r := HorrorRegistry()
	tests := []struct {
		input   string
		handler string
	}{
		{"осмотреться", HandlerLook},
		{"о", HandlerLook},
		{"look", HandlerLook},
		{"идти", HandlerMove},
		{"go", HandlerMove},
		{"взять", HandlerTake},
		{"забрать", HandlerTake},
		{"take", HandlerTake},
		{"инвентарь", HandlerInventory},
		{"инв", HandlerInventory},
		{"inv", HandlerInventory},
		{"назад", HandlerBack},
		{"back", HandlerBack},
		{"история", HandlerHistory},
		{"помощь", HandlerHelp},
		{"help", HandlerHelp},
		{"сброс", HandlerReset},
		{"reset", HandlerReset},
		{"restart", HandlerReset},
		{"карта", HandlerMap},
		{"спать", HandlerSleep},
		{"включить", HandlerLight},
		{"смешать", HandlerMix},
		{"приготовить", HandlerCook},
		{"использовать", HandlerUse},
		{"нажать", HandlerUse},
		{"прыгнуть", HandlerJump},
	}
	for _, tt := range tests {
		cmd, ok := r.Resolve(tt.input)
		require.True(t, ok, "verb %q not found", tt.input)
		assert.Equal(t, tt.handler, cmd.Handler, "verb %q", tt.input)
	}
}

func TestResolve_Directions(t *testing.T) {
	r := CastleRegistry()
	for alias, dir := range map[string]string{"с": "север", "ю": "юг", "в": "восток", "з": "запад", "вперёд": "вперед", "вниз": "вниз"} {
		cmd, ok := r.Resolve(alias)
		require.True(t, ok, "alias %q", alias)
		assert.Equal(t, HandlerMove, cmd.Handler)
		assert.Equal(t, dir, cmd.Direction)
	}
	cmd, _ := r.Resolve("идти")
	assert.Empty(t, cmd.Direction)
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "a", Handler: HandlerLook},
		{Name: "a", Handler: HandlerLook},
	})
	assert.Error(t, err)
}

func TestNewRegistry_AliasConflicts(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "a", Aliases: []string{"x"}, Handler: HandlerLook},
		{Name: "b", Aliases: []string{"x"}, Handler: HandlerLook},
	})
	assert.Error(t, err)

	_, err = NewRegistry([]Command{
		{Name: "a", Handler: HandlerLook},
		{Name: "b", Aliases: []string{"a"}, Handler: HandlerLook},
	})
	assert.Error(t, err)

	_, err = NewRegistry([]Command{{Name: "a"}})
	assert.Error(t, err)
}

func TestCommandsByCategory_PreservesOrder(t *testing.T) {
	r := HorrorRegistry()
	cats := r.CommandsByCategory()
	require.NotEmpty(t, cats[CategorySurvival])
	assert.Equal(t, "спать", cats[CategorySurvival][0].Name)
	assert.Equal(t, "север", cats[CategoryMovement][0].Name)
}

func TestPropertyEveryAliasResolvesToOwner(t *testing.T) {
	r := HorrorRegistry()
	cmds := r.Commands()
	rapid.Check(t, func(t *rapid.T) {
		cmd := rapid.SampledFrom(cmds).Draw(t, "cmd")
		for _, a := range cmd.Aliases {
			got, ok := r.Resolve(a)
			if !ok || got.Name != cmd.Name {
				t.Fatalf("alias %q resolved to %v", a, got)
			}
		}
	})
}
