package loginsvc

import "github.com/mkrupp/homecase-login/internal/domain"

const (
	// LoginFormTemplate is the template of the login form.
	LoginFormTemplate = "login-form"
	// HomeTemplate is the template of the authenticated landing page.
	HomeTemplate = "home"
)

// Instruction tells the transport how to answer a request.
// It is either a RenderInstruction or a RedirectInstruction.
type Instruction interface {
	isInstruction()
}

// ViewContext is the data handed to a template. The view only ever sees flat strings.
type ViewContext struct {
	ErrorMessage string
	Username     string
	CSRFToken    string
}

// RenderInstruction renders Template with Context.
type RenderInstruction struct {
	Template string
	Context  ViewContext
}

// RedirectInstruction sends the client to Location with Token attached.
type RedirectInstruction struct {
	Location string
	Token    domain.SessionToken
}

func (RenderInstruction) isInstruction()   {}
func (RedirectInstruction) isInstruction() {}
