package i18n

var hi = map[Key]string{
	Welcome:              "फ्रेंड्सज़ोन में आपका स्वागत है!",
	WelcomeDescription:   "यह एक रीयल-टाइम चैट एप्लिकेशन है। सार्वजनिक चैट, निजी चैट और छात्र चैट के बीच जाने के लिए कमांड का उपयोग करें।",
	Connecting:           "जोड़ रहा है...",
	Navigation:           "नेविगेशन",
	Home:                 "होम",
	PublicChat:           "सार्वजनिक चैट",
	PrivateChats:         "निजी चैट",
	Settings:             "सेटिंग्स",
	Users:                "उपयोगकर्ता",
	NoOtherUsers:         "कोई अन्य उपयोगकर्ता ऑनलाइन नहीं है। एक दोस्त को आमंत्रित करें!",
	You:                  "आप",
	SignOut:              "साइन आउट",
	ChatWith:             "के साथ चैट करें",
	SelectUser:           "बातचीत शुरू करने के लिए एक उपयोगकर्ता का चयन करें",
	TypeMessage:          "अपना संदेश लिखें...",
	UserBlocked:          "उपयोगकर्ता अवरुद्ध है।",
	SendMessage:          "संदेश भेजें",
	ShowProfile:          "प्रोफ़ाइल दिखाएं",
	BlockUser:            "उपयोगकर्ता को ब्लॉक करें",
	UnblockUser:          "उपयोगकर्ता को अनब्लॉक करें",
	ChangeBackground:     "पृष्ठभूमि बदलें",
	ChooseBackground:     "एक पृष्ठभूमि चुनें:",
	None:                 "कोई नहीं",
	Profile:              "प्रोफ़ाइल",
	UserID:               "आपकी उपयोगकर्ता आईडी",
	DisplayName:          "प्रदर्शित नाम",
	DateOfBirth:          "जन्म की तारीख",
	Bio:                  "बायो",
	Email:                "ईमेल",
	VerifyEmail:          "ईमेल सत्यापित करें",
	SaveProfile:          "प्रोफ़ाइल सहेजें",
	EmailDisclaimer:      "इस ऐप में वास्तविक ईमेल सत्यापन समर्थित नहीं है। आपका ईमेल सहेजा जाएगा, लेकिन एक सत्यापन लिंक नहीं भेजा जा सकता है।",
	UserProfile:          "उपयोगकर्ता प्रोफ़ाइल",
	Notifications:        "अधिसूचनाएं",
	Language:             "भाषा",
	InviteFriend:         "एक दोस्त को आमंत्रित करें",
	NotificationsTitle:   "अधिसूचनाएं",
	ReceiveNotifications: "नए संदेशों की सूचनाएं प्राप्त करें",
	PlaySound:            "नए संदेशों के लिए ध्वनि चलाएं",
	LanguageTitle:        "भाषा",
	SelectLanguage:       "भाषा चुनें",
	InviteTitle:          "एक दोस्त को आमंत्रित करें",
	InviteDescription:    "उन्हें चैट करने के लिए आमंत्रित करने के लिए अपने दोस्तों के साथ यह लिंक साझा करें!",
	CopyLink:             "लिंक कॉपी करें",
	Chat:                 "चैट",
	ChangeImage:          "छवि बदलें",
	UploadImage:          "छवि अपलोड करें",
	GatedChat:            "आईपेक छात्र चैट",
	EnterPassword:        "इस चैट में शामिल होने के लिए पासवर्ड दर्ज करें:",
	Submit:               "सबमिट करें",
	InvalidPassword:      "अमान्य पासवर्ड। कृपया पुनः प्रयास करें।",
	EmailAddress:         "ईमेल पता",
	Password:             "पासवर्ड",
	Login:                "लॉग इन करें",
	Signup:               "साइन अप करें",
	ToggleSignUp:         "अकाउंट नहीं है? साइन अप करें",
	ToggleLogin:          "पहले से ही खाता है? लॉग इन करें",
	AuthError:            "प्रमाणीकरण विफल रहा: ",
	PasswordRequirement:  "पासवर्ड कम से कम 8 वर्णों का होना चाहिए।",

	NotSignedIn:    "कृपया पहले लॉग इन या साइन अप करें।",
	UnknownCommand: "अज्ञात कमांड। help लिखें।",
	NothingToSend:  "कुछ नहीं भेजा गया।",
	RoomLocked:     "यह चैट लॉक है।",
	RoomUnlocked:   "स्वागत है!",
	ProfileSaved:   "प्रोफ़ाइल सहेजी गई।",
	Saved:          "सहेजा गया।",
	On:             "चालू",
	Off:            "बंद",
	Help:           "कमांड",
}
