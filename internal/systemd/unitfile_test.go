package systemd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catOutput = `# /usr/lib/systemd/system/sshd.service
[Unit]
Description=OpenSSH server daemon
After=network.target

[Service]
ExecStartPre=/usr/bin/ssh-keygen -A
ExecStart=/usr/sbin/sshd -D $OPTIONS

# /etc/systemd/system/sshd.service.d/override.conf
[Service]
Restart=always
`

func TestValidateUnitFile(t *testing.T) {
	assert.NoError(t, ValidateUnitFile(catOutput))

	err := ValidateUnitFile("ExecStart=/bin/true\n[Service]\nType=simple\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidUnitFile)
	assert.Contains(t, err.Error(), "ExecStart")

	assert.ErrorIs(t, ValidateUnitFile("# only a comment\n"), ErrInvalidUnitFile)
	assert.ErrorIs(t, ValidateUnitFile("[Service\nType=simple\n"), ErrInvalidUnitFile)
}

func TestSection(t *testing.T) {
	got, err := Section(catOutput, "Service")
	require.NoError(t, err)
	assert.Contains(t, got, "[Service]\n")
	assert.Contains(t, got, "ExecStart=/usr/sbin/sshd -D $OPTIONS\n")
	assert.Contains(t, got, "Restart=always\n")
	assert.NotContains(t, got, "Description")

	_, err = Section(catOutput, "Install")
	assert.Error(t, err)
}

func TestSplitCat(t *testing.T) {
	files := SplitCat(catOutput)
	require.Len(t, files, 2)
	assert.Equal(t, "/usr/lib/systemd/system/sshd.service", files[0].Path)
	assert.Equal(t, "[Unit]\nDescription=OpenSSH server daemon\nAfter=network.target\n\n[Service]\nExecStartPre=/usr/bin/ssh-keygen -A\nExecStart=/usr/sbin/sshd -D $OPTIONS\n", files[0].Content)
	assert.Equal(t, "/etc/systemd/system/sshd.service.d/override.conf", files[1].Path)
	assert.Equal(t, "[Service]\nRestart=always\n", files[1].Content)

	assert.Empty(t, SplitCat("no header here\n"))
}

func TestSplitCat_PathCommentsStayInBody(t *testing.T) {
	fragment := "[Unit]\nDescription=App\n\n[Service]\n" +
		"# /etc/app/env is sourced below\n" +
		"EnvironmentFile=/etc/app/env\n" +
		"# /etc/app/extra.conf\n" +
		"\n" +
		"# /etc/app/defaults\n" +
		"ExecStart=/usr/bin/app\n"
	text := "# /etc/systemd/system/app.service\n" + fragment +
		"\n# /etc/systemd/system/app.service.d/override.conf\n[Service]\nRestart=always\n"

	files := SplitCat(text)
	require.Len(t, files, 2)
	assert.Equal(t, "/etc/systemd/system/app.service", files[0].Path)
	assert.Equal(t, fragment, files[0].Content)
	assert.Equal(t, "/etc/systemd/system/app.service.d/override.conf", files[1].Path)
	assert.Equal(t, "[Service]\nRestart=always\n", files[1].Content)
}
