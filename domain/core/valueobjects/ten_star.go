package valueobjects

// TenStar is the relational category of a stem or branch measured against the
// day stem.
type TenStar int

const (
	Peer TenStar = iota
	RobWealth
	EatingGod
	HurtingOfficer
	IndirectWealth
	DirectWealth
	SevenKillings
	DirectOfficer
	IndirectResource
	DirectResource
)

// TenStarCount is the number of ten-star categories.
const TenStarCount = 10

var tenStarKorean = [TenStarCount]string{
	"비견", "겁재", "식신", "상관", "편재", "정재", "편관", "정관", "편인", "정인",
}

var tenStarNames = [TenStarCount]string{
	"PEER", "ROB_WEALTH", "EATING_GOD", "HURTING_OFFICER", "INDIRECT_WEALTH",
	"DIRECT_WEALTH", "SEVEN_KILLINGS", "DIRECT_OFFICER", "INDIRECT_RESOURCE", "DIRECT_RESOURCE",
}

func (t TenStar) IsValid() bool { return t >= Peer && t <= DirectResource }

// Korean returns the Hangul name carried in serialized charts.
func (t TenStar) Korean() string { return tenStarKorean[t] }

func (t TenStar) String() string { return tenStarNames[t] }
