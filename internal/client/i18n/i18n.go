// Package i18n holds the UI message catalogs. A key missing from the
// selected language's catalog renders as the key itself.
package i18n

// Key names a UI message.
type Key string

const (
	Welcome              Key = "welcome"
	WelcomeDescription   Key = "welcomeDescription"
	Connecting           Key = "connecting"
	Navigation           Key = "navigation"
	Home                 Key = "home"
	PublicChat           Key = "publicChat"
	PrivateChats         Key = "privateChats"
	Settings             Key = "settings"
	Users                Key = "users"
	NoOtherUsers         Key = "noOtherUsers"
	You                  Key = "you"
	SignOut              Key = "signOut"
	ChatWith             Key = "chatWith"
	SelectUser           Key = "selectUser"
	TypeMessage          Key = "typeMessage"
	UserBlocked          Key = "userBlocked"
	SendMessage          Key = "sendMessage"
	ShowProfile          Key = "showProfile"
	BlockUser            Key = "blockUser"
	UnblockUser          Key = "unblockUser"
	ChangeBackground     Key = "changeBackground"
	ChooseBackground     Key = "chooseBackground"
	None                 Key = "none"
	Profile              Key = "profile"
	UserID               Key = "userId"
	DisplayName          Key = "displayName"
	DateOfBirth          Key = "dateOfBirth"
	Bio                  Key = "bio"
	Email                Key = "email"
	VerifyEmail          Key = "verifyEmail"
	SaveProfile          Key = "saveProfile"
	EmailDisclaimer      Key = "emailDisclaimer"
	UserProfile          Key = "userProfile"
	Notifications        Key = "notifications"
	Language             Key = "language"
	InviteFriend         Key = "inviteFriend"
	NotificationsTitle   Key = "notificationsTitle"
	ReceiveNotifications Key = "receiveNotifications"
	PlaySound            Key = "playSound"
	LanguageTitle        Key = "languageTitle"
	SelectLanguage       Key = "selectLanguage"
	InviteTitle          Key = "inviteTitle"
	InviteDescription    Key = "inviteDescription"
	CopyLink             Key = "copyLink"
	Chat                 Key = "chat"
	ChangeImage          Key = "changeImage"
	UploadImage          Key = "uploadImage"
	GatedChat            Key = "ipecChat"
	EnterPassword        Key = "enterPassword"
	Submit               Key = "submit"
	InvalidPassword      Key = "invalidPassword"
	EmailAddress         Key = "emailAddress"
	Password             Key = "password"
	Login                Key = "login"
	Signup               Key = "signup"
	ToggleSignUp         Key = "toggleSignUp"
	ToggleLogin          Key = "toggleLogin"
	AuthError            Key = "authError"
	PasswordRequirement  Key = "passwordRequirement"

	// terminal-only messages
	NotSignedIn    Key = "notSignedIn"
	UnknownCommand Key = "unknownCommand"
	NothingToSend  Key = "nothingToSend"
	RoomLocked     Key = "roomLocked"
	RoomUnlocked   Key = "roomUnlocked"
	ProfileSaved   Key = "profileSaved"
	Saved          Key = "saved"
	On             Key = "on"
	Off            Key = "off"
	Help           Key = "help"
)

// LanguageOption is a selectable UI language.
type LanguageOption struct {
	Code string
	Name string
}

// Languages lists the languages offered by the picker. Only some have
// catalogs.
var Languages = []LanguageOption{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "हिन्दी"},
	{Code: "es", Name: "Español"},
	{Code: "fr", Name: "Français"},
	{Code: "de", Name: "Deutsch"},
}

var catalogs = map[string]map[Key]string{
	"en": en,
	"hi": hi,
}

// T returns the message for key in lang.
func T(lang string, key Key) string {
	if c, ok := catalogs[lang]; ok {
		if s, ok := c[key]; ok {
			return s
		}
	}
	return string(key)
}

// Supported reports whether code is offered by the language picker.
func Supported(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// HasCatalog reports whether code has translations.
func HasCatalog(code string) bool {
	_, ok := catalogs[code]
	return ok
}
