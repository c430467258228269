package card

// Spade ♠
const (
	Spade2 Card = iota + 0x02
	Spade3
	Spade4
	Spade5
	Spade6
	Spade7
	Spade8
	Spade9
	Spade10
	SpadeJ
	SpadeQ
	SpadeK
	SpadeA
)

// Heart ♥
const (
	Heart2 Card = iota + 0x12
	Heart3
	Heart4
	Heart5
	Heart6
	Heart7
	Heart8
	Heart9
	Heart10
	HeartJ
	HeartQ
	HeartK
	HeartA
)

// Diamond ♦
const (
	Diamond2 Card = iota + 0x22
	Diamond3
	Diamond4
	Diamond5
	Diamond6
	Diamond7
	Diamond8
	Diamond9
	Diamond10
	DiamondJ
	DiamondQ
	DiamondK
	DiamondA
)

// Club ♣
const (
	Club2 Card = iota + 0x32
	Club3
	Club4
	Club5
	Club6
	Club7
	Club8
	Club9
	Club10
	ClubJ
	ClubQ
	ClubK
	ClubA
)
