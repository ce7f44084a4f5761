package model

import "sort"

// Event type codes referenced by the extractors.
const (
	EventPass         = 1
	EventFoul         = 4 // "Free kick" in the feed vocabulary
	EventTackle       = 7
	EventInterception = 8
	EventClearance    = 12
	EventMiss         = 13
	EventPost         = 14
	EventAttemptSaved = 15
	EventGoal         = 16
	EventAerial       = 44
	EventBallRecovery = 49
)

// Qualifier codes referenced by the extractors.
const (
	QualifierCross         = 2
	QualifierFreeKickTaken = 5
	QualifierCornerTaken   = 6
	QualifierGoalMouthY    = 102
	QualifierGoalMouthZ    = 103
	QualifierThrowIn       = 107
	QualifierKeeperThrow   = 123
	QualifierGoalKick      = 124
	QualifierPassEndX      = 140
	QualifierPassEndY      = 141
)

// eventTypes and qualifierTypes are the closed vocabularies of the event feed.
// They are never written after package initialisation.
var eventTypes = map[int]string{
	1:  "Pass",
	2:  "Offside Pass",
	3:  "Take On",
	4:  "Free kick",
	5:  "Out",
	6:  "Corner",
	7:  "Tackle",
	8:  "Interception",
	9:  "Turnover",
	10: "Save",
	11: "Claim",
	12: "Clearance",
	13: "Miss",
	14: "Post",
	15: "Attempt Saved",
	16: "Goal",
	17: "Card",
	18: "Player off",
	19: "Player on",
	20: "Player retired",
	21: "Player returns",
	22: "Player becomes goalkeeper",
	23: "Goalkeeper becomes player",
	24: "Condition change",
	25: "Official change",
	26: "Possession",
	27: "Start delay",
	28: "End delay",
	29: "Temporary stop",
	30: "End",
	31: "Picked an orange",
	32: "Start",
	33: "Start/End canceling",
	34: "Team set up",
	35: "Player changed position",
	36: "Player changed Jersey number",
	37: "Collection End",
	38: "Temp_Goal",
	39: "Temp_Attempt",
	40: "Formation change",
	41: "Punch",
	42: "Good skill",
	43: "Deleted event",
	44: "Aerial",
	45: "Challenge",
	46: "Postponed",
	47: "Rescinded card",
	48: "Provisional lineup",
	49: "Ball recovery",
	50: "Dispossessed",
	51: "Error",
	52: "Keeper pick-up",
	53: "Cross not claimed",
	54: "Smother",
	55: "Offside provoked",
	56: "Shield ball oop",
	57: "Foul throw in",
	58: "Shot faced",
	59: "Keeper Sweeper",
	60: "Chance Missed",
	61: "Ball touch",
	62: "Event placeholder",
	63: "Temp_Save",
	64: "Resume",
	65: "Contentious referee decision",
}

var qualifierTypes = map[int]string{
	1:   "Long ball",
	2:   "Cross",
	3:   "Head pass",
	4:   "Through ball",
	5:   "Free kick taken",
	6:   "Corner taken",
	7:   "Players caught offside",
	8:   "Goal disallowed",
	9:   "Penalty",
	10:  "Hand",
	11:  "6-seconds violation",
	12:  "Dangerous play",
	13:  "Foul",
	14:  "Last line",
	15:  "Head",
	16:  "Small box-centre",
	17:  "Box-centre",
	18:  "Out of box-centre",
	19:  "35+ centre",
	20:  "Right footed",
	21:  "Other body part",
	22:  "Regular play",
	23:  "Fast break",
	24:  "Set piece",
	25:  "From corner",
	26:  "Free kick",
	28:  "own goal",
	29:  "Assisted",
	30:  "Involved",
	31:  "Yellow Card",
	32:  "Second yellow",
	33:  "Red Card",
	34:  "Referee abuse",
	35:  "Argument",
	36:  "Fight",
	37:  "Time wasting",
	38:  "Excessive celebration",
	39:  "Crowd interaction",
	40:  "Other reason",
	41:  "Injury",
	42:  "Tactical",
	44:  "Player Position",
	45:  "Temperature",
	46:  "Conditions",
	47:  "Field Pitch",
	48:  "Lightings",
	49:  "Attendance figure",
	50:  "Official position",
	51:  "Official Id",
	53:  "Injured player id",
	54:  "End cause",
	55:  "Related event ID",
	56:  "Zone",
	57:  "End type",
	59:  "Jersey Number",
	60:  "Small box-right",
	61:  "Small box-left",
	62:  "Box-deep right",
	63:  "Box-right",
	64:  "Box-left",
	65:  "Box-deep left",
	66:  "Out of box-deep right",
	67:  "Out of box-right",
	68:  "Out of box-left",
	69:  "Out of box-deep left",
	70:  "35+ right",
	71:  "35+ left",
	72:  "Left footed",
	73:  "Left",
	74:  "High",
	75:  "Right",
	76:  "Low Left",
	77:  "High Left",
	78:  "Low Centre",
	79:  "High Centre",
	80:  "Low Right",
	81:  "High Right",
	82:  "Blocked",
	83:  "Close Left",
	84:  "Close Right",
	85:  "Close High",
	86:  "Close Left and High",
	87:  "Close Right and High",
	88:  "High claim",
	89:  "1 on 1",
	90:  "Deflected save",
	91:  "Dive and deflect",
	92:  "Catch",
	93:  "Dive and catch",
	94:  "Def block",
	95:  "Back pass",
	96:  "Corner situation",
	97:  "Direct free",
	100: "Six Yard Blocked",
	101: "Saved Off Line",
	102: "Goal Mouth Y Coordinate",
	103: "Goal Mouth Z Coordinate",
	106: "Attacking Pass",
	107: "Throw In",
	108: "Volley",
	109: "Overhead",
	110: "Half Volley",
	111: "Diving Header",
	112: "Scramble",
	113: "Strong",
	114: "Weak",
	115: "Rising",
	116: "Dipping",
	117: "Lob",
	118: "One Bounce",
	119: "Few Bounces",
	120: "Swerve Left",
	121: "Swerve Right",
	122: "Swerve Moving",
	123: "Keeper Throw",
	124: "Goal Kick",
	128: "Punch",
	130: "Team Formation",
	131: "Team Player Formation",
	132: "Dive",
	133: "Deflection",
	134: "Far Wide Left",
	135: "Far Wide Right",
	136: "Keeper Touched",
	137: "Keeper Saved",
	138: "Hit Woodwork",
	139: "Own Player",
	140: "Pass End X",
	141: "Pass End Y",
	144: "Deleted Event Type",
	145: "Formation slot",
	146: "Blocked X Coordinate",
	147: "Blocked Y Coordinate",
	153: "Not past goal line",
	154: "Intentional Assist",
	155: "Chipped",
	156: "Lay-off",
	157: "Launch",
	158: "Persistent Infringement",
	159: "Foul and Abusive Language",
	160: "Throw In set piece",
	161: "Encroachment",
	162: "Leaving field",
	163: "Entering field",
	164: "Spitting",
	165: "Professional foul",
	166: "Handling on the line",
	167: "Out of play",
	168: "Flick-on",
	169: "Leading to attempt",
	170: "Leading to goal",
	171: "Rescinded Card",
	172: "No impact on timing",
	173: "Parried safe",
	174: "Parried danger",
	175: "Fingertip",
	176: "Caught",
	177: "Collected",
	178: "Standing",
	179: "Diving",
	180: "Stooping",
	181: "Reaching",
	182: "Hands",
	183: "Feet",
	184: "Dissent",
	185: "Blocked cross",
	186: "Scored",
	187: "Saved",
	188: "Missed",
	189: "Player Not Visible",
	190: "From shot off target",
	191: "Off the ball foul",
	192: "Block by hand",
	194: "Captain",
	195: "Pull Back",
	196: "Switch of play",
	197: "Team kit",
	198: "GK hoof",
	199: "Gk kick from hands",
	200: "Referee stop",
	201: "Referee delay",
	202: "Weather problem",
	203: "Crowd trouble",
	204: "Fire",
	205: "Object thrown on pitch",
	206: "Spectator on pitch",
	207: "Awaiting officials decision",
	208: "Referee Injury",
	209: "Game end",
	210: "Assist",
	211: "Overrun",
	212: "Length",
	213: "Angle",
	214: "Big Chance",
	215: "Individual Play",
	216: "2nd related event ID",
	217: "2nd assited",
	218: "2nd assist",
	219: "Players on both posts",
	220: "Player on near post",
	221: "Player on far post",
	222: "No players on posts",
	223: "Inswinger",
	224: "Outswinger",
	225: "Straight",
	226: "Suspended",
	227: "Resume",
	228: "Own shot blocked",
	229: "Post match complete",
}

var (
	eventTypeCodes     = invert(eventTypes)
	qualifierTypeCodes = invert(qualifierTypes)
)

func invert(m map[int]string) map[string]int {
	out := make(map[string]int, len(m))
	for code, name := range m {
		out[name] = code
	}
	return out
}

// EventTypeName returns the feed name of an event type code, or "" if unknown.
func EventTypeName(code int) string { return eventTypes[code] }

// EventTypeCode looks up an event type code by its feed name.
func EventTypeCode(name string) (int, bool) {
	code, ok := eventTypeCodes[name]
	return code, ok
}

// QualifierTypeName returns the feed name of a qualifier code, or "" if unknown.
func QualifierTypeName(code int) string { return qualifierTypes[code] }

// QualifierTypeCode looks up a qualifier code by its feed name.
func QualifierTypeCode(name string) (int, bool) {
	code, ok := qualifierTypeCodes[name]
	return code, ok
}

// EventTypeCodes returns every known event type code in ascending order.
func EventTypeCodes() []int { return sortedKeys(eventTypes) }

// QualifierTypeCodes returns every known qualifier code in ascending order.
func QualifierTypeCodes() []int { return sortedKeys(qualifierTypes) }

func sortedKeys(m map[int]string) []int {
	out := make([]int, 0, len(m))
	for code := range m {
		out = append(out, code)
	}
	sort.Ints(out)
	return out
}
