package i18n

var en = map[Key]string{
	Welcome:              "Welcome to Friendszone!",
	WelcomeDescription:   "This is a real-time chat application. Use the commands to move between the public room, private chats and the students room.",
	Connecting:           "Connecting...",
	Navigation:           "Navigation",
	Home:                 "Home",
	PublicChat:           "Public Chat",
	PrivateChats:         "Private Chats",
	Settings:             "Settings",
	Users:                "Users",
	NoOtherUsers:         "No other users online. Invite a friend!",
	You:                  "You",
	SignOut:              "Sign Out",
	ChatWith:             "Chat with",
	SelectUser:           "Select a user to start a conversation",
	TypeMessage:          "Type your message...",
	UserBlocked:          "User is blocked.",
	SendMessage:          "Send Message",
	ShowProfile:          "Show Profile",
	BlockUser:            "Block User",
	UnblockUser:          "Unblock User",
	ChangeBackground:     "Change Background",
	ChooseBackground:     "Choose a background:",
	None:                 "None",
	Profile:              "Profile",
	UserID:               "Your User ID",
	DisplayName:          "Display Name",
	DateOfBirth:          "Date of Birth",
	Bio:                  "Bio",
	Email:                "Email",
	VerifyEmail:          "Verify Email",
	SaveProfile:          "Save Profile",
	EmailDisclaimer:      "Real email verification is not supported in this app. Your email will be saved, but a verification link cannot be sent.",
	UserProfile:          "User Profile",
	Notifications:        "Notifications",
	Language:             "Language",
	InviteFriend:         "Invite a Friend",
	NotificationsTitle:   "Notifications",
	ReceiveNotifications: "Receive new message notifications",
	PlaySound:            "Play sound for new messages",
	LanguageTitle:        "Language",
	SelectLanguage:       "Select Language",
	InviteTitle:          "Invite a Friend",
	InviteDescription:    "Share this link with your friends to invite them to chat!",
	CopyLink:             "Copy Link",
	Chat:                 "Chat",
	ChangeImage:          "Change Image",
	UploadImage:          "Upload Image",
	GatedChat:            "IPEC Students Chat",
	EnterPassword:        "Enter password to join this chat:",
	Submit:               "Submit",
	InvalidPassword:      "Invalid password. Please try again.",
	EmailAddress:         "Email Address",
	Password:             "Password",
	Login:                "Log In",
	Signup:               "Sign Up",
	ToggleSignUp:         "Don't have an account? Sign Up",
	ToggleLogin:          "Already have an account? Log In",
	AuthError:            "Authentication failed: ",
	PasswordRequirement:  "Password must be at least 8 characters long.",

	NotSignedIn:    "Please log in or sign up first.",
	UnknownCommand: "Unknown command. Type help.",
	NothingToSend:  "Nothing was sent.",
	RoomLocked:     "This room is locked.",
	RoomUnlocked:   "Welcome in!",
	ProfileSaved:   "Profile saved.",
	Saved:          "Saved.",
	On:             "on",
	Off:            "off",
	Help:           "Commands",
}
