package main

// ActionDefinition defines an action with its default keybindings and description
type ActionDefinition struct {
	Name        string
	Keys        []string
	Description string
}

// actionDefinitions contains all action definitions with default keybindings and descriptions
var actionDefinitions = []ActionDefinition{
	{"exit", []string{"KeyQ"}, "Quit application"},
	{"close", []string{"Escape"}, "Close viewer (quit when already in the grid)"},
	{"help", []string{"Shift+Slash"}, "Show/hide help"},
	{"info", []string{"KeyI"}, "Show/hide info display"},
	{"open_viewer", []string{"Enter"}, "Open viewer on the selected image"},
	{"next_image", []string{"ArrowRight"}, "Next image"},
	{"previous_image", []string{"ArrowLeft"}, "Previous image"},
	{"scroll_down", []string{"ArrowDown"}, "Scroll grid down / pan image down"},
	{"scroll_up", []string{"ArrowUp"}, "Scroll grid up / pan image up"},
	{"next_page", []string{"PageDown", "KeyN"}, "Load and jump to next page"},
	{"previous_page", []string{"PageUp", "KeyP"}, "Jump to previous page"},
	{"cycle_zoom", []string{"Space"}, "Cycle zoom (Original/Fit Width/Fit Height)"},
	{"zoom_original", []string{"Key1"}, "Zoom to original size"},
	{"zoom_fit_width", []string{"Key2"}, "Fit image to viewport width"},
	{"zoom_fit_height", []string{"Key3"}, "Fit image to viewport height"},
	{"reshuffle", []string{"KeyR"}, "Reshuffle the collection"},
	{"cycle_order", []string{"Shift+KeyS"}, "Cycle ordering (Shuffled/Natural/Entry)"},
	{"fullscreen", []string{"KeyF"}, "Toggle fullscreen"},
}

// ActionExecutor provides centralized action execution logic shared by
// the keyboard and touch input paths.
type ActionExecutor struct{}

// NewActionExecutor creates a new ActionExecutor instance
func NewActionExecutor() *ActionExecutor {
	return &ActionExecutor{}
}

// ExecuteAction executes the given action using the InputActions interface
func (ae *ActionExecutor) ExecuteAction(action string, inputActions InputActions, inputState InputState) bool {
	switch action {
	case "exit":
		inputActions.Exit()
	case "close":
		if inputState.IsViewerOpen() {
			inputActions.CloseViewer()
		} else {
			inputActions.Exit()
		}
	case "help":
		inputActions.ToggleHelp()
	case "info":
		inputActions.ToggleInfo()
	case "open_viewer":
		if !inputState.IsViewerOpen() {
			inputActions.OpenViewer()
		}
	case "next_image":
		inputActions.NavigateNext()
	case "previous_image":
		inputActions.NavigatePrevious()
	case "scroll_down":
		inputActions.ScrollDown()
	case "scroll_up":
		inputActions.ScrollUp()
	case "next_page":
		inputActions.NextPage()
	case "previous_page":
		inputActions.PreviousPage()
	case "cycle_zoom":
		inputActions.CycleZoom()
	case "zoom_original":
		inputActions.SetZoom(ZoomOriginal)
	case "zoom_fit_width":
		inputActions.SetZoom(ZoomFitWidth)
	case "zoom_fit_height":
		inputActions.SetZoom(ZoomFitHeight)
	case "reshuffle":
		inputActions.Reshuffle()
	case "cycle_order":
		inputActions.CycleOrdering()
	case "fullscreen":
		inputActions.ToggleFullscreen()

	default:
		return false
	}

	return true
}

// globalActionExecutor is the global instance of ActionExecutor used throughout the application
var globalActionExecutor = NewActionExecutor()

// GetActionDescriptions returns a map of action names to their descriptions
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default keybindings
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = action.Keys
	}
	return keybindings
}
