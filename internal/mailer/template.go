package mailer

const htmlTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>{subject}</title>
  </head>
  <body style="margin:0;padding:0;background-color:#f4f4f4;font-family:Helvetica,Arial,sans-serif;">
    <table role="presentation" width="100%" cellpadding="0" cellspacing="0">
      <tr>
        <td align="center" style="padding:24px;">
          <table role="presentation" width="480" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:32px;">
            <tr>
              <td style="font-size:20px;font-weight:bold;padding-bottom:16px;">{subject}</td>
            </tr>
            <tr>
              <td style="font-size:14px;color:#333333;padding-bottom:8px;">Hi {user_name},</td>
            </tr>
            <tr>
              <td style="font-size:14px;color:#333333;padding-bottom:24px;">{message}</td>
            </tr>
            <tr>
              <td align="center" style="padding-bottom:24px;">
                <a href="{link}" style="background-color:#1a73e8;color:#ffffff;text-decoration:none;padding:12px 24px;border-radius:4px;display:inline-block;">Set password</a>
              </td>
            </tr>
            <tr>
              <td style="font-size:12px;color:#999999;">Cheers,<br />{app_name} Team</td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`
