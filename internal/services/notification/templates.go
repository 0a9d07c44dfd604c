package notification

import "fmt"

// Template готовое письмо: тема, HTML и текстовая версия.
type Template struct {
	Subject string
	HTML    string
	Text    string
}

const (
	subjectVerification  = "Código de Verificação - Alcateia Hits"
	subjectPasswordReset = "Recuperação de Senha - Alcateia Hits"
	subjectWelcome       = "Bem-vindo à Alcateia Hits! 🎵"

	footer = "© 2024 Alcateia Hits. Todos os direitos reservados."
)

const baseStyle = `
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
    .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
    .code { background: #fff; border: 2px dashed #667eea; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; color: #667eea; margin: 20px 0; border-radius: 8px; }
    .feature { background: #fff; padding: 15px; margin: 10px 0; border-radius: 5px; border-left: 4px solid #667eea; }
    .warning { background: #fff3cd; border: 1px solid #ffeaa7; padding: 15px; border-radius: 5px; margin: 20px 0; }
    .footer { text-align: center; margin-top: 20px; color: #666; font-size: 14px; }`

// page оборачивает содержимое письма в общий каркас.
// Стиль проходит через Sprintf, поэтому проценты в нём экранированы.
func page(title, icon, tagline, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <style>`+baseStyle+`
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>%s Alcateia Hits</h1>
      <p>%s</p>
    </div>
    <div class="content">
%s
    </div>
    <div class="footer">
      <p>%s</p>
    </div>
  </div>
</body>
</html>`, title, icon, tagline, content, footer)
}

// VerificationTemplate письмо с кодом подтверждения email.
func VerificationTemplate(code string, minutes int) Template {
	content := fmt.Sprintf(`      <h2>Olá!</h2>
      <p>Você está quase lá! Use o código abaixo para verificar sua conta:</p>
      <div class="code">%s</div>
      <p><strong>Este código expira em %d minutos.</strong></p>
      <p>Se você não solicitou esta verificação, pode ignorar este email.</p>`, code, minutes)

	text := fmt.Sprintf(`%s

Olá!

Você está quase lá! Use o código abaixo para verificar sua conta:

%s

Este código expira em %d minutos.

Se você não solicitou esta verificação, pode ignorar este email.

%s`, subjectVerification, code, minutes, footer)

	return Template{
		Subject: subjectVerification,
		HTML:    page("Código de Verificação", "🎵", "Verificação de Conta", content),
		Text:    text,
	}
}

// PasswordResetTemplate письмо с кодом восстановления пароля.
func PasswordResetTemplate(code string, minutes int) Template {
	content := fmt.Sprintf(`      <h2>Recuperação de Senha</h2>
      <p>Recebemos uma solicitação para redefinir a senha da sua conta.</p>
      <p>Use o código abaixo para continuar:</p>
      <div class="code">%s</div>
      <div class="warning">
        <strong>⚠️ Importante:</strong> Este código expira em %d minutos. Se você não solicitou esta recuperação, ignore este email e sua senha permanecerá inalterada.
      </div>
      <p>Se você não fez esta solicitação, recomendamos que verifique a segurança da sua conta.</p>`, code, minutes)

	text := fmt.Sprintf(`%s

Recuperação de Senha

Recebemos uma solicitação para redefinir a senha da sua conta.

Use o código abaixo para continuar:

%s

⚠️ IMPORTANTE: Este código expira em %d minutos. Se você não solicitou esta recuperação, ignore este email e sua senha permanecerá inalterada.

Se você não fez esta solicitação, recomendamos que verifique a segurança da sua conta.

%s`, subjectPasswordReset, code, minutes, footer)

	return Template{
		Subject: subjectPasswordReset,
		HTML:    page("Recuperação de Senha", "🔐", "Recuperação de Senha", content),
		Text:    text,
	}
}

// WelcomeTemplate приветственное письмо после активации подписки.
func WelcomeTemplate() Template {
	content := `      <h2>Parabéns! Sua conta foi criada com sucesso!</h2>
      <p>Bem-vindo à Alcateia Hits! Estamos muito felizes em tê-lo como parte da nossa comunidade de produtores musicais.</p>

      <h3>O que você pode fazer agora:</h3>
      <div class="feature">
        <strong>🎼 Acessar conteúdo exclusivo</strong><br>
        Explore nossa biblioteca de beats, samples e tutoriais.
      </div>
      <div class="feature">
        <strong>🎧 Sessões de produção</strong><br>
        Agende sessões com nossos produtores especializados.
      </div>
      <div class="feature">
        <strong>🌐 Registro de domínio</strong><br>
        Para planos Premium, registre seu domínio personalizado.
      </div>

      <p>Se você tiver alguma dúvida, não hesite em entrar em contato conosco!</p>`

	text := subjectWelcome + `

Parabéns! Sua conta foi criada com sucesso!

Bem-vindo à Alcateia Hits! Estamos muito felizes em tê-lo como parte da nossa comunidade de produtores musicais.

O que você pode fazer agora:

🎼 Acessar conteúdo exclusivo
Explore nossa biblioteca de beats, samples e tutoriais.

🎧 Sessões de produção
Agende sessões com nossos produtores especializados.

🌐 Registro de domínio
Para planos Premium, registre seu domínio personalizado.

Se você tiver alguma dúvida, não hesite em entrar em contato conosco!

` + footer

	return Template{
		Subject: subjectWelcome,
		HTML:    page("Bem-vindo!", "🎵", "Bem-vindo à nossa comunidade!", content),
		Text:    text,
	}
}
