package ending

// Screen is the rendered text for a terminal outcome.
type Screen struct {
	Title string
	Text  string
	// Victory marks the single good ending.
	Victory bool
}

var screens = map[Ending]Screen{
	FrozenJump: {
		Title: "Ледяной прыжок",
		Text:  "Вы прыгаете с балкона в сугроб и бежите к лесу. Мороз быстрее вас: к утру вас находят у дороги, окоченевшего, в одной рубашке.",
	},
	CaughtManiac: {
		Title: "Пойман",
		Text:  "Тяжёлая рука ложится вам на плечо. Хозяин дома улыбается и тянется за тесаком. Больше вы ничего не видите.",
	},
	ShredderMeat: {
		Title: "Фарш",
		Text:  "Крышка люка проваливается под ногами. Ножи шредера работают без остановки.",
	},
	ForgotPotion: {
		Title: "Слишком рано",
		Text:  "Вы выскакиваете на улицу, но хозяин дома не спит и не изменился. Он догоняет вас у калитки. Надо было сначала разобраться с ним.",
	},
	PigChase: {
		Title: "Погоня",
		Text:  "Огромная свинья, бывшая когда-то хозяином дома, проснулась. Она вышибает дверь и несётся за вами по снегу. Визг затихает только в лесу. Вместе с вами.",
	},
	EatenByPig: {
		Title: "Корм",
		Text:  "Вы подходите к свинье со шприцем. Она уже не человек и не собирается засыпать второй раз. Последнее, что вы слышите, это чавканье.",
	},
	TrueEscape: {
		Title:   "Свобода",
		Text:    "Свинья храпит в подвале. Вы выходите за дверь, вдыхаете морозный воздух и идёте по дороге к огням деревни. Вы выбрались.",
		Victory: true,
	},
}

// ScreenFor returns the ending screen for e. Unknown endings yield a zero Screen.
func ScreenFor(e Ending) Screen {
	return screens[e]
}
