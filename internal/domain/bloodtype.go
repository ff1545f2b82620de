package domain

// BloodType is one of the eight ABO/Rh groups. The zero value is not valid;
// use ParseBloodType for anything that crosses a trust boundary.
type BloodType string

const (
	APos  BloodType = "A+"
	ANeg  BloodType = "A-"
	BPos  BloodType = "B+"
	BNeg  BloodType = "B-"
	ABPos BloodType = "AB+"
	ABNeg BloodType = "AB-"
	OPos  BloodType = "O+"
	ONeg  BloodType = "O-"
)

// donorCompatibility maps a donor's type to the set of recipient types it can
// serve. O- is the universal donor, AB+ the universal recipient.
var donorCompatibility = map[BloodType][]BloodType{
	ONeg:  {ONeg, OPos, ANeg, APos, BNeg, BPos, ABNeg, ABPos},
	OPos:  {OPos, APos, BPos, ABPos},
	ANeg:  {ANeg, APos, ABNeg, ABPos},
	APos:  {APos, ABPos},
	BNeg:  {BNeg, BPos, ABNeg, ABPos},
	BPos:  {BPos, ABPos},
	ABNeg: {ABNeg, ABPos},
	ABPos: {ABPos},
}

func (b BloodType) IsValid() bool {
	_, ok := donorCompatibility[b]
	return ok
}

// CanDonateTo reports whether blood of type b may be given to a recipient
// needing type recipient. Unknown types on either side are never compatible.
func (b BloodType) CanDonateTo(recipient BloodType) bool {
	for _, r := range donorCompatibility[b] {
		if r == recipient {
			return true
		}
	}
	return false
}

// ParseBloodType validates a raw string against the eight known groups.
func ParseBloodType(s string) (BloodType, bool) {
	bt := BloodType(s)
	return bt, bt.IsValid()
}

func AllBloodTypes() []BloodType {
	return []BloodType{APos, ANeg, BPos, BNeg, ABPos, ABNeg, OPos, ONeg}
}
