package tagging

// 以下词表在进程启动时加载为只读结构，运行期不修改

var stopWordList = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "for", "from",
	"has", "he", "in", "is", "it", "its", "of", "on", "that", "the",
	"to", "was", "will", "with", "i", "me", "my", "we", "you", "your",
	"this", "but", "they", "have", "had", "what", "when", "where",
	"who", "which", "why", "how", "am", "been", "being", "do", "does",
	"did", "doing", "would", "should", "could", "ought", "im", "youre",
	"hes", "shes", "were", "theyre", "ive", "youve", "weve",
	"theyve", "id", "youd", "hed", "shed", "wed", "theyd", "ill",
	"youll", "hell", "shell", "well", "theyll", "isnt", "arent",
	"wasnt", "werent", "hasnt", "havent", "hadnt", "doesnt", "dont",
	"didnt", "wont", "wouldnt", "shant", "shouldnt", "cant", "cannot",
	"couldnt", "mustnt", "lets", "thats", "whos", "whats", "heres",
	"theres", "whens", "wheres", "whys", "hows", "so", "than", "too",
	"very", "can", "just", "now", "then", "there", "here", "not", "no",
}

type emojiCategory struct {
	emojis string
	label  string
}

// 顺序即扫描顺序。变体选择符 U+FE0F 不计入，否则任何带它的文本都会命中。
var emojiCategoryList = []emojiCategory{
	{"😀😃😄😁😆😅🤣😂🙂🙃😉😊😇", "happy"},
	{"🥰😍🤩😘😗😚😙", "love"},
	{"😋😛😜🤪😝", "playful"},
	{"🤗🤭🤫🤔", "thinking"},
	{"🤐😐😑😶", "neutral"},
	{"😏😒🙄😬🤥", "suspicious"},
	{"😌😔😪🤤😴", "tired"},
	{"😷🤒🤕🤢🤮", "sick"},
	{"🥳🤠🤡", "party"},
	{"😎🤓", "cool"},
	{"😭😢😥😰😨😱", "sad"},
	{"😡😠🤬", "angry"},
	{"💪🏋🤸🏃🚴", "fitness"},
	{"🎮🎯🎲🎰", "gaming"},
	{"🎵🎶🎸🎹🎤", "music"},
	{"📷📸🎥🎬", "photography"},
	{"🍕🍔🍟🌮🍿", "food"},
	{"☕🍵🧃🍺🍻", "drinks"},
	{"✈🚗🚙🏖🏝", "travel"},
	{"🏀⚽🏈⚾🎾", "sports"},
	{"🐶🐱🐭🐹🐰", "pets"},
	{"🌸🌺🌻🌹🌷", "nature"},
	{"💼👔🏢", "work"},
	{"📚📖✏📝", "education"},
	{"❤💙💚💛💜", "love"},
	{"🔥💯✨⭐", "trending"},
}

type topic struct {
	label    string
	triggers []string
}

var topicList = []topic{
	{"workout", []string{"workout", "gym", "exercise", "training", "fitness"}},
	{"food", []string{"food", "eating", "meal", "lunch", "dinner", "breakfast"}},
	{"travel", []string{"travel", "trip", "vacation", "journey", "adventure"}},
	{"fashion", []string{"outfit", "style", "fashion", "clothes", "wearing"}},
	{"selfie", []string{"selfie", "face", "look", "looking"}},
	{"party", []string{"party", "club", "night", "nightout", "drinks"}},
	{"study", []string{"study", "studying", "homework", "exam", "school"}},
	{"work", []string{"work", "working", "office", "meeting", "project"}},
	{"gaming", []string{"game", "gaming", "playing", "gamer", "stream"}},
	{"music", []string{"music", "song", "concert", "listening", "singing"}},
	{"art", []string{"art", "drawing", "painting", "creative", "artist"}},
	{"nature", []string{"nature", "outdoor", "hiking", "beach", "mountain"}},
	{"pets", []string{"dog", "cat", "puppy", "kitten", "pet"}},
	{"mood", []string{"feeling", "mood", "vibes", "energy"}},
}
