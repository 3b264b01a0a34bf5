// Package command provides the verb registry, parser, and the castle and
// horror vocabularies.
package command

// Categories for organizing commands.
const (
	CategoryMovement = "movement"
	CategoryWorld    = "world"
	CategorySurvival = "survival"
	CategorySystem   = "system"
)

// Handler identifiers mapping commands to interpreter handlers.
const (
	HandlerLook      = "look"
	HandlerMove      = "move"
	HandlerTake      = "take"
	HandlerInventory = "inventory"
	HandlerBack      = "back"
	HandlerHistory   = "history"
	HandlerHelp      = "help"
	HandlerReset     = "reset"
	HandlerMap       = "map"
	HandlerSleep     = "sleep"
	HandlerLight     = "light"
	HandlerMix       = "mix"
	HandlerCook      = "cook"
	HandlerUse       = "use"
	HandlerJump      = "jump"
)

// Command defines a player-invocable verb.
type Command struct {
	// Name is the canonical verb.
	Name string
	// Aliases are alternate spellings of the verb.
	Aliases []string
	// Usage is the example invocation shown in help.
	Usage string
	// Help is the short help msgid, translated at render time.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler names the interpreter handler.
	Handler string
	// Direction is set for verbs that are themselves a movement direction.
	Direction string
}

func directionCommands() []Command {
	dir := func(name string, aliases ...string) Command {
		return Command{Name: name, Aliases: aliases, Usage: name, Help: "Move in this direction",
			Category: CategoryMovement, Handler: HandlerMove, Direction: name}
	}
	return []Command{
		dir("север", "с", "n", "north"),
		dir("юг", "ю", "s", "south"),
		dir("восток", "в", "e", "east"),
		dir("запад", "з", "w", "west"),
		dir("вверх", "up"),
		dir("вниз", "down"),
		dir("вперед", "вперёд", "forward"),
	}
}

func sharedCommands() []Command {
	return []Command{
		{Name: "идти", Aliases: []string{"иди", "пойти", "go"}, Usage: "идти <направление>", Help: "Go through an exit", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "назад", Aliases: []string{"back", "b"}, Usage: "назад", Help: "Return to the previous location", Category: CategoryMovement, Handler: HandlerBack},

		{Name: "осмотреться", Aliases: []string{"о", "осмотреть", "look", "l"}, Usage: "осмотреться [предмет]", Help: "Describe the location or an item", Category: CategoryWorld, Handler: HandlerLook},
		{Name: "взять", Aliases: []string{"забрать", "take", "get"}, Usage: "взять <предмет>", Help: "Pick up an item", Category: CategoryWorld, Handler: HandlerTake},
		{Name: "инвентарь", Aliases: []string{"инв", "inv", "i"}, Usage: "инвентарь", Help: "List carried items", Category: CategoryWorld, Handler: HandlerInventory},
		{Name: "карта", Aliases: []string{"map", "m"}, Usage: "карта", Help: "Show the map of explored locations", Category: CategoryWorld, Handler: HandlerMap},

		{Name: "история", Aliases: []string{"history"}, Usage: "история", Help: "Show recent commands", Category: CategorySystem, Handler: HandlerHistory},
		{Name: "помощь", Aliases: []string{"справка", "help", "?"}, Usage: "помощь", Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "сброс", Aliases: []string{"reset", "restart"}, Usage: "сброс", Help: "Start a new game", Category: CategorySystem, Handler: HandlerReset},
	}
}

func horrorCommands() []Command {
	return []Command{
		{Name: "спать", Aliases: []string{"уснуть", "sleep"}, Usage: "спать", Help: "Sleep until morning", Category: CategorySurvival, Handler: HandlerSleep},
		{Name: "включить", Aliases: []string{"light"}, Usage: "включить свет", Help: "Switch on a light", Category: CategorySurvival, Handler: HandlerLight},
		{Name: "смешать", Aliases: []string{"mix"}, Usage: "смешать", Help: "Mix ingredients into an injection", Category: CategorySurvival, Handler: HandlerMix},
		{Name: "приготовить", Aliases: []string{"cook"}, Usage: "приготовить", Help: "Cook a meal", Category: CategorySurvival, Handler: HandlerCook},
		{Name: "использовать", Aliases: []string{"нажать", "применить", "use"}, Usage: "использовать [предмет]", Help: "Use something here", Category: CategorySurvival, Handler: HandlerUse},
		{Name: "прыгнуть", Aliases: []string{"прыжок", "jump"}, Usage: "прыгнуть [точно]", Help: "Jump", Category: CategorySurvival, Handler: HandlerJump},
	}
}

// CastleCommands returns the castle vocabulary.
func CastleCommands() []Command {
	return append(directionCommands(), sharedCommands()...)
}

// HorrorCommands returns the horror vocabulary: the castle verbs plus the
// survival verbs.
func HorrorCommands() []Command {
	return append(CastleCommands(), horrorCommands()...)
}
